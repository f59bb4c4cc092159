package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/web"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeDB, workDir, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := loadConfig(workDir)
			if err != nil {
				return err
			}
			store := db.NewStore(storeDB)
			manager, err := buildManager(cfg, store)
			if err != nil {
				return err
			}
			server, err := web.NewServer(manager, store)
			if err != nil {
				return err
			}

			addr := fmt.Sprintf(":%d", port)
			fmt.Printf("Serving API on http://localhost%s\n", addr)
			return http.ListenAndServe(addr, server.Routes())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}
