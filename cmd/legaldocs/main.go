// Package main es la CLI legaldocs: consulta, renderiza, exporta y mueve por su
// ciclo de vida los documentos dinámicos del backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "legaldocs"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli guarda el estado compartido por los subcomandos. La App se crea la
// primera vez que un comando la pide y se cierra al terminar.
type cli struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer

	cfg *config.Config
	app *App
}

func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *cli) open(ctx context.Context) (*App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	app, err := NewApp(ctx, cfg, c.stderr)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// execute corre la CLI con args y cierra la App aunque el comando falle.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Gestión de documentos dinámicos",
		Long: `legaldocs trabaja con los documentos dinámicos del backend:
lista y filtra, renderiza las variables, exporta a PDF, Word o Markdown,
descarga los archivos generados por el servidor y aplica las transiciones
del ciclo de vida (publicar, diligenciar, firmar, rechazar).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(c.stdout)
	cmd.SetErr(c.stderr)

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		versionCmd(),
		loginCmd(c),
		logoutCmd(c),
		documentsCmd(c),
		tagsCmd(c),
		reportsCmd(c),
		previewCmd(c),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document ID %q", arg)
	}
	return id, nil
}
