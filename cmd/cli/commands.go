package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/courtflow/courtflow/internal/backend"
	"github.com/courtflow/courtflow/internal/board"
	"github.com/courtflow/courtflow/internal/metrics"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	sessionName   string
	courtCount    int
	matchDuration int
	desiredMM     int
	desiredMF     int
	desiredFF     int
	guestGender   string
	guestLevel    string
)

func init() {
	createSessionCmd.Flags().StringVar(&sessionName, "name", "Club session", "Session name")
	createSessionCmd.Flags().IntVar(&courtCount, "courts", 2, "Number of courts")
	createSessionCmd.Flags().IntVar(&matchDuration, "duration", 15, "Match duration in minutes")
	assignCmd.Flags().IntVar(&desiredMM, "mm", 0, "Desired men's matches")
	assignCmd.Flags().IntVar(&desiredMF, "mf", 0, "Desired mixed matches")
	assignCmd.Flags().IntVar(&desiredFF, "ff", 0, "Desired women's matches")
	guestCmd.Flags().StringVar(&guestGender, "gender", "unspecified", "Guest gender (male/female/other/unspecified)")
	guestCmd.Flags().StringVar(&guestLevel, "level", "", "Guest level")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(createSessionCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(guestCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(statsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var createSessionCmd = &cobra.Command{
	Use:   "create-session",
	Short: "Create a new club session",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"name":                   sessionName,
			"date":                   time.Now().Format(time.RFC3339),
			"match_duration_minutes": matchDuration,
			"number_of_courts":       courtCount,
		}
		return performJSONRequest(http.MethodPost, "/sessions", body)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the club's active players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance <sessionID> [playerID...]",
	Short: "Show attendance, or replace it with the given player ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performGetRequest("/sessions/" + args[0] + "/attendance")
		}
		client := backend.NewClient(host)
		attendance, err := client.SetAttendance(args[0], args[1:])
		if err != nil {
			return err
		}
		return printJSON(attendance)
	},
}

var guestCmd = &cobra.Command{
	Use:   "guest <sessionID> <name>",
	Short: "Register a guest player and check them in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		guest, err := b.AddGuest(args[1], session.Gender(guestGender), guestLevel)
		if err != nil {
			return err
		}
		fmt.Printf("Guest %s checked in as %s\n", guest.FullName, guest.ID)
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <sessionID>",
	Short: "Auto-assign the next round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		prefs := session.DefaultPreferences()
		prefs.DesiredMM = desiredMM
		prefs.DesiredMF = desiredMF
		prefs.DesiredFF = desiredFF
		if err := b.AutoAssign(prefs, nil); err != nil {
			return err
		}
		return renderBoard(b)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <sessionID>",
	Short: "Start the current round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		if err := b.StartRound(); err != nil {
			return err
		}
		fmt.Printf("Round started, %s on the clock\n", b.TimeRemaining().Round(time.Second))
		return nil
	},
}

var endCmd = &cobra.Command{
	Use:   "end <sessionID>",
	Short: "End the current round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		if err := b.EndRound(); err != nil {
			return err
		}
		fmt.Println("Round ended")
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <sessionID>",
	Short: "Cancel the pending round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		if err := b.CancelRound(); err != nil {
			return err
		}
		fmt.Println("Round cancelled")
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board <sessionID>",
	Short: "Show the current round, waiting list and history glyphs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		return renderBoard(b)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <sessionID>",
	Short: "Show the session's participation stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/sessions/" + args[0] + "/stats")
	},
}

// loadBoard wires a board against the server for one-shot CLI operations.
func loadBoard(sessionID string) (*board.Board, error) {
	metricsSvc := metrics.NewService(prometheus.NewRegistry())
	notify := func(err error) { fmt.Fprintf(os.Stderr, "rejected: %v\n", err) }
	b := board.New(backend.NewClient(host), metricsSvc, notify)
	if err := b.Load(sessionID); err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return b, nil
}

func renderBoard(b *board.Board) error {
	round := b.CurrentRound()
	if round == nil {
		fmt.Println("No round in progress")
	} else {
		fmt.Printf("Round %d (%s)\n", round.RoundIndex+1, round.State())
		for _, court := range round.CourtAssignments {
			fmt.Printf("  Court %d [%s]: %s/%s vs %s/%s\n", court.CourtNumber+1, court.MatchType,
				slotName(court.TeamAPlayer1), slotName(court.TeamAPlayer2),
				slotName(court.TeamBPlayer1), slotName(court.TeamBPlayer2))
		}
	}

	waiting := b.WaitingList()
	fmt.Printf("Waiting (%d):\n", len(waiting))
	for _, p := range waiting {
		fmt.Printf("  %s  %s\n", b.History(p.ID), p.FullName)
	}
	return nil
}

func slotName(id *string) string {
	if id == nil {
		return "-"
	}
	return *id
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performJSONRequest(method, endpoint string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, host+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))
	return nil
}
