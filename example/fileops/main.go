// Fileops agent: registers the fileops tool set, subscribes to the event
// stream, and works a goal against a scratch directory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/event"
	infraevent "github.com/felixgeelhaar/autopilot/infrastructure/event"
	"github.com/felixgeelhaar/autopilot/interfaces/api"
	"github.com/felixgeelhaar/autopilot/pack/fileops"
)

func main() {
	scratch, err := os.MkdirTemp("", "autopilot-fileops-")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(scratch)

	bus := infraevent.NewBus()

	opts := []api.Option{
		api.WithName("fileops"),
		api.WithPublisher(bus),
		api.WithCycleInterval(100 * time.Millisecond),
		api.WithMaxCycles(20),
	}
	agent, err := api.New(opts...)
	if err != nil {
		log.Fatal(err)
	}

	for _, t := range fileops.Tools(fileops.WithRoot(scratch)) {
		if err := agent.RegisterTool(t); err != nil {
			log.Fatal(err)
		}
	}

	events, cancelSub := bus.Subscribe(event.TypeStatusChanged, event.TypeGoalCompleted)
	defer cancelSub()
	go func() {
		for evt := range events {
			fmt.Printf("[%s] %s\n", evt.Timestamp.Format(time.TimeOnly), evt.Type)
		}
	}()

	// Immediate goals use the description as the step action, so this routes
	// straight to the list_dir tool.
	agent.AddGoal(api.NewGoal("", "list_dir", api.GoalImmediate, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	agent.Start(ctx)
	for agent.IsRunning() {
		time.Sleep(50 * time.Millisecond)
	}
	agent.Stop()

	state := agent.State()
	fmt.Printf("final status: %s, goals: %d\n", state.Status, len(state.Goals))
}
