package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/webhookmonitor/internal/httpapi"
)

func newStatusCmd() *cobra.Command {
	var base, key string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print endpoint status from a running monitor's status API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("STATUS_API_KEY")
			}
			client := &http.Client{Timeout: 10 * time.Second}
			return runStatus(cmd.Context(), cmd.OutOrStdout(), client, base, key)
		},
	}
	cmd.Flags().StringVar(&base, "api", "http://localhost:8080", "status API base URL")
	cmd.Flags().StringVar(&key, "key", "", "status API key (default $STATUS_API_KEY)")
	return cmd
}

func runStatus(ctx context.Context, w io.Writer, client *http.Client, base, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/endpoints", nil)
	if err != nil {
		return err
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("contact status API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status API returned %s", resp.Status)
	}

	var eps []httpapi.EndpointStatus
	if err := json.NewDecoder(resp.Body).Decode(&eps); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tDOWN FOR\tURL")
	for _, ep := range eps {
		downFor := ep.DownFor
		if downFor == "" {
			downFor = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ep.Name, strings.ToUpper(ep.Status), downFor, ep.URL)
	}
	return tw.Flush()
}
