package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	internalApp "github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/mcpserver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	var config string

	mcpCommand := &cobra.Command{
		Use:   "mcp [-c config_file]",
		Short: "Serve notes as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openLocalApp(ctx, config)
			if err != nil {
				return err
			}
			defer closeLocalApp(a)

			srv := mcpserver.New(internalApp.Name, internalApp.Version, a.NoteService, a.AssistService, a.Logger())
			a.Logger().Info("mcp server listening on stdio", zap.Strings("tools", srv.ToolNames()))
			return srv.Serve(ctx, os.Stdin, os.Stdout)
		},
	}

	rootCmd.AddCommand(mcpCommand)
	mcpCommand.Flags().StringVarP(&config, "config", "c", "", "config file")
}
