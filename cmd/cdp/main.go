// Command cdp is the command line interface for the CDP client SDK. It
// manages the per-user credentials file consumed by config.Load.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/cdp-sdk-go/config"
)

func main() {
	app := kingpin.New("cdp", "Command line interface for the CDP client SDK.")

	configCmd := app.Command("config", "Configure your CDP client.")

	setCmd := configCmd.Command("set-default", "Set default config variables.")
	setProject := setCmd.Flag("project", "Project to access.").Short('p').Envar("CDP_PROJECT").String()
	setAPIKey := setCmd.Flag("api-key", "API key for the project.").Short('k').Envar("CDP_API_KEY").String()
	setFile := setCmd.Flag("file", "Credentials file to write.").String()

	viewCmd := configCmd.Command("view", "View your CDP client configuration.")
	viewFile := viewCmd.Flag("file", "Credentials file to read.").String()

	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case setCmd.FullCommand():
		if err := runSetDefault(*setFile, *setAPIKey, *setProject); err != nil {
			app.Fatalf("%v", err)
		}
	case viewCmd.FullCommand():
		if err := runView(*viewFile, os.Stdout); err != nil {
			app.Fatalf("%v", err)
		}
	}
}

func runSetDefault(path, apiKey, project string) error {
	path, err := credentialsPath(path)
	if err != nil {
		return err
	}
	return config.WriteCredentials(path, apiKey, project)
}

func runView(path string, w io.Writer) error {
	path, err := credentialsPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read credentials file: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func credentialsPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.DefaultCredentialsPath()
}
