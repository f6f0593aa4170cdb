package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	chiTransport "github.com/kailas-cloud/ragdex/internal/transport/chi"
)

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a document",
	Long: `Add a document to the store.

Examples:
  ragctl add --text "Go channels are typed conduits"
  ragctl add --file ./notes.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")

		switch {
		case text != "" && file != "":
			return errors.New("--text and --file are mutually exclusive")
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("one of --text or --file is required")
		}

		resp, err := newAPIClient().post(cmd.Context(), "/add", chiTransport.AddRequest{Text: text})
		if err != nil {
			return err
		}

		var result chiTransport.AddResponse
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), "Added document %d", result.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().String("text", "", "document text")
	addCmd.Flags().String("file", "", "read document text from a file")
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the stored documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		resp, err := newAPIClient().post(cmd.Context(), "/ask", chiTransport.AskRequest{Question: question})
		if err != nil {
			return err
		}

		var result chiTransport.AskResponse
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Answer)

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			printStatus(out, "Context", "%d document(s)", len(result.ContextUsed))
			for i, c := range result.ContextUsed {
				fmt.Fprintf(out, "    [%d] %s\n", i, c)
			}
			printStatus(out, "Latency", "%.3fs", result.LatencySec)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolP("verbose", "v", false, "show retrieved context and latency")
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newAPIClient().get(cmd.Context(), "/status")
		if err != nil {
			return err
		}

		var st chiTransport.StatusResponse
		if err := decodeJSON(resp, &st); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case st.BackendReady:
			printSuccess(out, "Vector backend ready (%s)", st.BackendDriver)
		case st.BackendDriver == "memory":
			printWarning(out, "No vector backend configured, using in-memory fallback")
		default:
			printWarning(out, "In-memory fallback, %s backend was unavailable at startup", st.BackendDriver)
		}
		if !st.BackendReady {
			printStatus(out, "Fallback documents", "%d", st.FallbackDocCount)
		}
		printStatus(out, "Pipeline ready", "%t", st.PipelineReady)
		return nil
	},
}
