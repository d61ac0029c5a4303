package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZacxDev/layout-composer/internal/config"
	"github.com/ZacxDev/layout-composer/internal/platform"
	"github.com/ZacxDev/layout-composer/internal/processor"
	"github.com/ZacxDev/layout-composer/internal/server"
)

var (
	rootCmd = &cobra.Command{
		Use:   "layout-composer",
		Short: "Compose video layouts and compile them into ffmpeg commands",
		Long: `layout-composer arranges video and text layers on a canvas and compiles the
arrangement into a single ffmpeg filter_complex command.

Examples:
  # Compile a layout for TikTok and save the command as a script
  layout-composer compile layout.yaml --platform tiktok -o render.sh

  # Replay recorded edits over a layout
  layout-composer replay layout.json --script edits.yaml -o edited.json

  # Serve the editing API
  layout-composer serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
		},
	}

	compileCmd = &cobra.Command{
		Use:   "compile [layout]",
		Short: "Compile a layout file into an ffmpeg command",
		Long: fmt.Sprintf(`Compile a JSON or YAML layout into an ffmpeg command and print it.

Without a layout file an empty session is compiled.

Supported platforms:
%s`, formatSupportedPlatforms()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := &config.CompileOptions{}
			if len(args) > 0 {
				opts.LayoutPath = args[0]
			}
			opts.TemplatePath, _ = cmd.Flags().GetString("template")
			opts.Platform, _ = cmd.Flags().GetString("platform")
			opts.OutputPath, _ = cmd.Flags().GetString("output")
			opts.Copy, _ = cmd.Flags().GetBool("copy")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			res, err := processor.NewCompiler(cfg, opts, slog.Default()).Process()
			if err != nil {
				return err
			}
			if res.ScriptPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Command)
			}
			return nil
		},
	}

	replayCmd = &cobra.Command{
		Use:   "replay [layout]",
		Short: "Apply a recorded action script to a layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := &config.ReplayOptions{}
			if len(args) > 0 {
				opts.LayoutPath = args[0]
			}
			opts.ScriptPath, _ = cmd.Flags().GetString("script")
			opts.OutputPath, _ = cmd.Flags().GetString("output")
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			res, err := processor.NewReplayer(cfg, opts, slog.Default()).Process()
			if err != nil {
				return err
			}
			if res.Path == "" {
				cmd.OutOrStdout().Write(res.Data)
			}
			return nil
		},
	}

	previewCmd = &cobra.Command{
		Use:   "preview [layout]",
		Short: "Render a wireframe PNG of a layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := &config.PreviewOptions{}
			if len(args) > 0 {
				opts.LayoutPath = args[0]
			}
			opts.TemplatePath, _ = cmd.Flags().GetString("template")
			opts.OutputPath, _ = cmd.Flags().GetString("output")
			opts.Scale, _ = cmd.Flags().GetFloat64("scale")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			path, err := processor.NewPreviewer(cfg, opts, slog.Default()).Process()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout editing API over HTTP and websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, slog.Default()).ListenAndServe(ctx)
		},
	}

	platformsCmd = &cobra.Command{
		Use:   "platforms",
		Short: "List the supported target platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range processor.GetSupportedPlatforms() {
				p, err := platform.Get(name)
				if err != nil {
					return err
				}
				c := p.GetCanvas()
				fmt.Fprintf(out, "%-16s %5.0fx%-5.0f max %ds  %s\n",
					name, c.Width, c.Height, p.GetMaxDuration(), p.GetCodecPreset())
			}
			return nil
		},
	}
)

func formatSupportedPlatforms() string {
	var sb strings.Builder
	for _, p := range processor.GetSupportedPlatforms() {
		sb.WriteString(fmt.Sprintf("- %s\n", p))
	}
	return sb.String()
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Compile command flags
	compileCmd.Flags().String("template", "", "Template image overlaid above every layer")
	compileCmd.Flags().StringP("platform", "p", "",
		fmt.Sprintf("Target platform frame (%s)", strings.Join(processor.GetSupportedPlatforms(), ", ")))
	compileCmd.Flags().StringP("output", "o", "", "Write the command to this .sh file")
	compileCmd.Flags().BoolP("copy", "c", false, "Copy the command to the clipboard")

	// Replay command flags
	replayCmd.Flags().StringP("script", "s", "", "Action script (JSON or YAML)")
	replayCmd.Flags().StringP("output", "o", "", "Save the resulting layout here")
	replayCmd.Flags().StringP("format", "f", "json", "Format printed when no output is given (json or yaml)")
	replayCmd.MarkFlagRequired("script")

	// Preview command flags
	previewCmd.Flags().String("template", "", "Template image drawn over the layout")
	previewCmd.Flags().StringP("output", "o", config.DefaultPreviewFile, "Output PNG path")
	previewCmd.Flags().Float64("scale", config.DefaultPreviewScale, "Output pixels per canvas pixel")

	// Serve command flags
	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides LAYOUT_PORT)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(platformsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
