package echo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/gookit/color"
)

//go:embed manifest.hcl
var manifest []byte

// colors maps the accepted color names to terminal colors.
var colors = map[string]color.Color{
	"red":    color.LightRed,
	"green":  color.LightGreen,
	"yellow": color.LightYellow,
	"blue":   color.LightBlue,
	"white":  color.LightWhite,
	"black":  color.Gray,
	"purple": color.LightMagenta,
	"aqua":   color.LightCyan,
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the options of an echo step.
type Input struct {
	Message string  `cty:"message"`
	Color   *string `cty:"color"`
}

// Validate rejects an empty message.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if input.Message == "" {
		return errors.New("message must not be empty")
	}
	return nil
}

// Initiate writes the message to the run's output.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	ctxlog.FromContext(ctx).Debug("Echoing message.", "length", len(input.Message))

	msg := input.Message
	if input.Color != nil {
		if c, ok := colors[*input.Color]; ok {
			msg = c.Sprint(msg)
		}
	}

	_, err := fmt.Fprintln(call.Out, msg)
	return err
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(Input) },
		Module:   m,
	})
}
