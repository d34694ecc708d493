package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

func newRecognizeCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recognize <image|->",
		Short: "Recognize the text in one image and print it",
		Long:  "Recognize the text in one image file. Use - to read the image from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			src, err := sourceFromArg(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out, err := a.rec.Recognize(ctx, src.Take(), a.cfg.Accuracy, a.cfg.Languages).Wait()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = fmt.Fprintln(w, out.Text)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print text and confidence as JSON")
	return cmd
}

func sourceFromArg(arg string, stdin io.Reader) (ocr.ImageSource, error) {
	if arg != "-" {
		return ocr.FromPath(arg), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return ocr.ImageSource{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return ocr.ImageSource{}, fmt.Errorf("no image on stdin")
	}
	return ocr.FromBytes(data), nil
}
