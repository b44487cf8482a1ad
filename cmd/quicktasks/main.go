package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/quicktasks/internal/app"
	"github.com/nhle/quicktasks/internal/client"
	"github.com/nhle/quicktasks/internal/model"
	appsync "github.com/nhle/quicktasks/internal/sync"
)

func main() {
	fs := pflag.NewFlagSet("quicktasks", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	baseURL := fs.String("url", "", "server URL, overrides client.base_url")
	_ = fs.Parse(os.Args[1:])

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quicktasks: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
	poller := appsync.New(api, cfg.Client.RefreshInterval, cfg.Client.Timeout)
	defer poller.Stop()

	root := app.New(api, cfg.Client.BaseURL,
		app.WithRequestTimeout(cfg.Client.Timeout),
		app.WithPoller(poller),
	)

	if _, err := tea.NewProgram(root, tea.WithAltScreen()).Run(); err != nil {
		poller.Stop()
		fmt.Fprintf(os.Stderr, "quicktasks: %v\n", err)
		os.Exit(1)
	}
}
