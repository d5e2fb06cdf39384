package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/autodeviq/autodev/internal/markdown"
)

type blockReport struct {
	Kind       string `json:"kind" yaml:"kind"`
	Key        string `json:"key" yaml:"key"`
	Lang       string `json:"lang,omitempty" yaml:"lang,omitempty"`
	Closed     bool   `json:"closed" yaml:"closed"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Text       string `json:"text" yaml:"text"`
}

func renderCmd() *cobra.Command {
	var (
		mode   string
		output string
		width  int
		light  bool
		edit   bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Split generated test markdown into prose and code",
		Long: `Read generated test markdown from a file, or stdin when no file is given,
and render it.

Modes:
  code      the code of every closed fence, separated by blank lines
  html      an HTML page with escaped prose and <pre><code> blocks
  terminal  styled output for the terminal
  blocks    the block sequence the review screen shows (honours -o)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch mode {
			case "code":
				code := markdown.ExtractCodeBlocks(text)
				if code == "" {
					return nil
				}
				_, err := fmt.Fprintln(out, code)
				return err

			case "html":
				_, err := io.WriteString(out, markdown.RenderHTML(text))
				return err

			case "terminal":
				r := markdown.NewTerminalRenderer(width, !light)
				_, err := fmt.Fprintln(out, r.Render(text, edit))
				return err

			case "blocks":
				if err := checkFormat(output); err != nil {
					return err
				}
				blocks := markdown.Blocks(text, edit, nil)
				report := make([]blockReport, len(blocks))
				for i, b := range blocks {
					report[i] = blockReport{
						Kind:       b.Kind.String(),
						Key:        b.Key,
						Lang:       b.Segment.Lang,
						Closed:     b.Kind == markdown.Code && b.Segment.Closed,
						Background: b.Theme.Background,
						Foreground: b.Theme.Foreground,
						Text:       b.Text,
					}
				}
				return writeOutput(out, output, report, func(w io.Writer) error {
					for _, b := range report {
						fmt.Fprintf(w, "--- %s\n%s\n", b.Key, b.Text)
					}
					return nil
				})
			}
			return fmt.Errorf("unknown mode %q (want code, html, terminal or blocks)", mode)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "code", "code, html, terminal or blocks")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "blocks output format: text, json or yaml")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "terminal mode wrap width")
	cmd.Flags().BoolVar(&light, "light", false, "terminal mode light theme")
	cmd.Flags().BoolVar(&edit, "edit", false, "use the edit-mode code theme")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
