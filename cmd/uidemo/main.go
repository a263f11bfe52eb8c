// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command uidemo renders a small demo interface offscreen and writes
// the frame to a PNG. It exercises the whole pipeline: reactive loop,
// style resolution, flexbox layout, text shaping, async image loading,
// and a registered renderer backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/config"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/reactive"
	"github.com/gogpu/ui/renderer"
	"github.com/gogpu/ui/resource"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/surface"
	"github.com/gogpu/ui/text"

	_ "github.com/gogpu/ui/renderer/software"
	_ "github.com/gogpu/ui/renderer/wgpu"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		verbose bool
		cfgPath string
	)

	root := &cobra.Command{
		Use:          "uidemo",
		Short:        "Render the ui demo scene to a PNG",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			ui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&cfgPath, "config", "ui.toml", "config file path")

	root.AddCommand(newRenderCmd(&cfgPath))
	root.AddCommand(newBackendsCmd())

	return root.ExecuteContext(context.Background())
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered renderer backends in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range renderer.List() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

type renderOpts struct {
	output  string
	backend string
	image   string
	width   int
	height  int
	scale   float64
}

func newRenderCmd(cfgPath *string) *cobra.Command {
	opts := renderOpts{
		output: "uidemo.png",
		scale:  1,
	}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of the demo scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if opts.width > 0 {
				cfg.Window.Width = opts.width
			}
			if opts.height > 0 {
				cfg.Window.Height = opts.height
			}
			if opts.backend != "" {
				cfg.Renderer.Backend = opts.backend
			}
			if opts.scale > 0 {
				cfg.Window.Scale = opts.scale
			}
			return renderDemo(cmd.Context(), cfg, opts.image, opts.output)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "renderer backend (default: config or priority order)")
	cmd.Flags().StringVar(&opts.image, "image", "", "image file to load into the demo")
	cmd.Flags().IntVar(&opts.width, "width", 0, "frame width in logical pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "frame height in logical pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "device pixel ratio")
	return cmd
}

// demoApp is the demo's root component. Its only messages are resource
// completions, which repaint the image card.
type demoApp struct {
	theme  config.Theme
	images *resource.Manager
	logo   string
}

type resourceDone struct {
	id  string
	err error
}

func (a *demoApp) Update(msg reactive.Message) reactive.DirtyLevel {
	if m, ok := msg.(resourceDone); ok && m.id == a.logo {
		return reactive.DirtyPaint
	}
	return reactive.Idle
}

func (a *demoApp) View() element.Spec {
	t := a.theme
	bg := config.Color(t.Background, ui.RGB(0.1, 0.1, 0.15))
	card := config.Color(t.Surface, ui.RGB(0.2, 0.2, 0.25))
	fg := config.Color(t.Text, ui.RGB(0.9, 0.9, 0.95))
	accent := config.Color(t.Accent, ui.RGB(0.4, 0.6, 1))
	gap := float32(t.Spacing)
	radius := ui.UniformRadii(float32(t.Radius))

	title := element.Text((&style.Style{}).
		SetTextColor(fg).
		SetFontSize(float32(t.FontSize)*1.6), "gogpu/ui demo").WithKey("title")

	swatches := make([]element.Spec, 0, 3)
	for i, c := range []ui.Color{accent, ui.RGB(0.95, 0.55, 0.35), ui.RGB(0.45, 0.85, 0.55)} {
		swatches = append(swatches, element.Container((&style.Style{}).
			SetBackground(c).
			SetBorderRadii(radius).
			SetBorderWidths(ui.UniformInsets(2)).
			SetBorderColors(style.BorderColors{Top: fg, Right: fg, Bottom: fg, Left: fg}).
			SetFlexGrow(1).
			SetHeight(style.Px(64))).WithKey(fmt.Sprintf("swatch-%d", i)))
	}
	row := element.Container((&style.Style{}).
		SetDirection(style.Row).
		SetGap(gap),
		swatches...).WithKey("swatches")

	cards := []element.Spec{title, row, pathCard(card, accent, radius)}
	if a.logo != "" {
		a.images.Get(a.logo)
		cards = append(cards, element.Image((&style.Style{}).
			SetBackground(card).
			SetBorderRadii(radius).
			SetHeight(style.Px(120)), a.logo).WithKey("logo"))
	}

	return element.Container((&style.Style{}).
		SetBackground(bg).
		SetDirection(style.Column).
		SetPadding(ui.UniformInsets(gap*2)).
		SetGap(gap),
		cards...)
}

// pathCard draws a star on a rounded card.
func pathCard(bg, stroke ui.Color, radius ui.CornerRadii) element.Spec {
	star := ui.NewPath().MoveTo(60, 8).
		LineTo(74, 44).LineTo(112, 44).LineTo(82, 66).
		LineTo(94, 104).LineTo(60, 80).LineTo(26, 104).
		LineTo(38, 66).LineTo(8, 44).LineTo(46, 44).Close()

	return element.Container((&style.Style{}).
		SetBackground(bg).
		SetBorderRadii(radius).
		SetHeight(style.Px(128)),
		element.PathSpec((&style.Style{}).SetTextColor(stroke), star).WithKey("star"),
	).WithKey("path-card")
}

func renderDemo(ctx context.Context, cfg config.Config, imagePath, output string) error {
	fonts := text.NewLibrary()
	if _, err := fonts.Register(cfg.Theme.FontFamily, 400, style.FontStyleNormal, goregular.TTF); err != nil {
		return fmt.Errorf("register font: %w", err)
	}

	images := resource.NewManager(resource.FS(os.DirFS(".")), 0)
	defer images.Close()

	app := &demoApp{theme: cfg.Theme, images: images, logo: imagePath}
	loop := reactive.NewLoop(app, fonts, text.NewHarfBuzzShaper())

	scale := float32(cfg.Window.Scale)
	if scale <= 0 {
		scale = 1
	}
	viewport := ui.Size{Width: float32(cfg.Window.Width), Height: float32(cfg.Window.Height)}
	loop.Resize(viewport, scale)

	devW := int(viewport.Width * scale)
	devH := int(viewport.Height * scale)
	format, err := cfg.Renderer.SurfaceFormat()
	if err != nil {
		return err
	}
	backend, err := cfg.Renderer.New(renderer.Options{
		Width:  devW,
		Height: devH,
		Format: format,
		Fonts:  fonts,
		Images: images,
	})
	if err != nil {
		return err
	}
	defer backend.Destroy()
	ui.Logger().Info("backend selected", "name", backend.Name())

	sc := loop.Tick()
	if sc == nil {
		return errors.New("first tick produced no frame")
	}
	if err := backend.Render(ctx, sc); err != nil {
		return err
	}

	// Wait for async image loads, then forward completions as messages
	// and produce the final frame.
	if imagePath != "" {
		deadline := time.Now().Add(5 * time.Second)
		for images.Pending() && time.Now().Before(deadline) {
			for _, ev := range images.Drain() {
				if ev.Err != nil {
					ui.Logger().Warn("image load failed", "id", ev.ID, "error", ev.Err)
				}
				loop.Send(app, resourceDone{id: ev.ID, err: ev.Err})
			}
			time.Sleep(5 * time.Millisecond)
		}
		if next := loop.Tick(); next != nil {
			if err := backend.Render(ctx, next); err != nil {
				return err
			}
		}
	}

	snap, ok := backend.(renderer.Snapshotter)
	if !ok {
		return fmt.Errorf("backend %q cannot snapshot", backend.Name())
	}

	target, err := surface.NewImageSurfaceWithFormat(devW, devH, format)
	if err != nil {
		return err
	}
	defer target.Close()
	if err := surface.PresentFrame(target, snap.Snapshot()); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, target.Front()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d, %s)\n", output, devW, devH, backend.Name())
	return nil
}
