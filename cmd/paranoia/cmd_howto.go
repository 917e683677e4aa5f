package main

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed howto.md
var howtoMarkdown string

var howtoStyle string

var howtoCmd = &cobra.Command{
	Use:   "howto",
	Short: "Explain how to print, cut and fold the cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderHowto(cmd.OutOrStdout(), howtoStyle)
	},
}

func init() {
	howtoCmd.Flags().StringVar(&howtoStyle, "style", "auto", "Rendering style: auto, dark, light or notty")
	rootCmd.AddCommand(howtoCmd)
}

func renderHowto(w io.Writer, style string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("howto: %w", err)
	}
	out, err := r.Render(howtoMarkdown)
	if err != nil {
		return fmt.Errorf("howto: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
