package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tourmate-gateway/internal/chat"
	"tourmate-gateway/internal/client"
	"tourmate-gateway/internal/session"
	"tourmate-gateway/pkg/api"
)

var (
	gatewayURL string
	storePath  string
	language   string
)

var (
	botNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	userNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)
	insightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

var rootCmd = &cobra.Command{
	Use:   "tourmate",
	Short: "Chat with the TourMate travel assistant from the terminal",
	Long: `An interactive terminal client for the TourMate travel assistant.

The client resolves a chat session on startup (reusing the locally stored
session when the backend still accepts it), replays prior history, and then
reads messages from stdin until EOF or /quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.Flags().StringVar(&gatewayURL, "gateway", "http://localhost:3000", "TourMate gateway base URL")
	rootCmd.Flags().StringVar(&storePath, "store", "", "session store path (default ~/.tourmate/session.db)")
	rootCmd.Flags().StringVar(&language, "language", "", "reply language (default English)")
}

func runChat(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	gw := client.New(gatewayURL, client.DefaultTimeout)

	controller := session.NewController(store, gw)
	if err := controller.Resolve(cmd.Context()); err != nil {
		return fmt.Errorf("could not start a chat session: %w", err)
	}

	orch := chat.NewOrchestrator(gw, controller, language, controller.History())
	defer orch.Close()

	for _, msg := range orch.Transcript() {
		printMessage(msg)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "/quit" {
			break
		}
		if !orch.SubmitUserTurn(text) {
			continue
		}

		// One submission yields exactly two transcript entries: the user
		// echo, then the reply once the turn resolves.
		printMessage(<-orch.Updates())
		printMessage(<-orch.Updates())
	}
	return scanner.Err()
}

func printMessage(msg api.ChatMessage) {
	name, style := "TourMate", botNameStyle
	if msg.Sender == api.SenderUser {
		name, style = "You", userNameStyle
	}
	fmt.Printf("%s %s %s\n", style.Render(name+":"), msg.Text, timestampStyle.Render(msg.Timestamp))

	if len(msg.TableData) > 0 {
		printTable(msg.TableData, msg.TableInsights)
	}
}

func printTable(rows []api.Row, insights *string) {
	kind := api.DetectTableKind(rows)
	fmt.Println(tableTitleStyle.Render(kind.Title()))

	headers := make([]string, 0, len(rows[0]))
	for header := range rows[0] {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	for _, row := range rows {
		parts := make([]string, 0, len(headers))
		for _, header := range headers {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(header, "_", " "), formatCell(row[header], kind)))
		}
		fmt.Println("  " + strings.Join(parts, " | "))
	}

	if insights != nil && *insights != "" {
		fmt.Println(insightStyle.Render(*insights))
	}
}

func formatCell(cell any, kind api.TableKind) string {
	// Weather tables round numeric cells to two decimals, like the web UI.
	if f, ok := cell.(float64); ok && kind == api.TableWeather {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return fmt.Sprint(cell)
}

func openStore() (session.Store, error) {
	path := storePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".tourmate", "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating session store directory: %w", err)
	}
	return session.OpenSqliteStore(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
