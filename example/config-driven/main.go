// Config-driven agent: the whole runtime is assembled from a yaml document,
// including storage backends and telemetry.
package main

import (
	"context"
	"fmt"
	"log"

	infraconfig "github.com/felixgeelhaar/autopilot/infrastructure/config"
	"github.com/felixgeelhaar/autopilot/interfaces/api"
)

const configYAML = `
name: config-driven
version: 1.0.0
agent:
  cycle_interval: 100ms
  max_cycles: 10
  default_goal: organize the backlog
guardrails:
  max_execution_time: 30s
  max_plan_steps: 5
logging:
  level: info
  format: console
`

func main() {
	cfg, err := infraconfig.NewLoader().LoadString(configYAML, infraconfig.FormatYAML)
	if err != nil {
		log.Fatal(err)
	}

	rt, err := api.RuntimeFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close(context.Background())

	ctx := context.Background()
	rt.Run(ctx)

	history, err := rt.Replay(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("runs: %d, transitions: %d, last status: %s\n",
		history.Runs, len(history.Timeline), history.LastStatus)
}
