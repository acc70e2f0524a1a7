package main

import (
	"github.com/edgecount/edgecount/cmd/edgecount/shared"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/server"
	"github.com/edgecount/edgecount/internal/session"
)

// ServeCmd runs the WebSocket advisory server
type ServeCmd struct {
	Addr     string `default:":8090" help:"Listen address"`
	Profiles string `type:"existingfile" optional:"" help:"HCL file of named table-rule profiles"`

	Debug    bool `help:"Enable debug logging"`
	JSONLogs bool `name:"json-logs" help:"Emit structured JSON logs"`
}

// Run starts the server and blocks until interrupted
func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSONLogs)

	opts := []session.ManagerOption{}
	if c.Profiles != "" {
		profiles, err := rules.LoadProfiles(c.Profiles)
		if err != nil {
			return err
		}
		logger.Info().Int("profiles", len(profiles)).Str("file", c.Profiles).Msg("loaded rule profiles")
		opts = append(opts, session.WithProfiles(profiles))
	}

	manager := session.NewManager(logger, opts...)
	srv := server.New(c.Addr, manager, logger)

	ctx := shared.SetupSignalHandler(logger)
	return srv.Run(ctx)
}
