// Minimal agent: one tool, one immediate goal, a bounded run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/felixgeelhaar/autopilot/interfaces/api"
)

func main() {
	echo := api.MustNewTool("echo", "echoes input", func(ctx context.Context, input json.RawMessage) (api.ToolResult, error) {
		return api.ToolResult{Output: input}, nil
	})

	agent, err := api.New(
		api.WithName("minimal"),
		api.WithTool(echo),
		api.WithCycleInterval(100*time.Millisecond),
		api.WithMaxCycles(10),
	)
	if err != nil {
		log.Fatal(err)
	}

	agent.AddGoal(api.NewGoal("", "echo", api.GoalImmediate, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	agent.Start(ctx)
	for agent.IsRunning() {
		time.Sleep(50 * time.Millisecond)
	}
	agent.Stop()

	m := agent.Metrics()
	fmt.Printf("cycles: %d, completed: %d, success rate: %.2f\n",
		m.TasksAttempted, m.TasksCompleted, m.SuccessRate)
}
