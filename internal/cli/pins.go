package cli

import (
	"context"
	"fmt"

	"github.com/robby/ghboards/internal/domain"
	"github.com/spf13/cobra"
)

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Manage pinned boards",
	Long: `Manage the boards pinned for the authenticated GitHub user.

Pins are stored per user in the configured store (a JSON file by default).
At most 10 boards are kept; adding an eleventh drops the oldest.

Examples:
  ghboards pins list
  ghboards pins add https://github.com/orgs/acme/projects/3
  ghboards pins rm https://github.com/orgs/acme/projects/3`,
}

var pinsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pinned boards",
	Args:  cobra.NoArgs,
	RunE:  runPinsList,
}

var pinsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Pin a board",
	Args:  cobra.ExactArgs(1),
	RunE:  runPinsAdd,
}

var pinsRmCmd = &cobra.Command{
	Use:     "rm <url>",
	Aliases: []string{"remove"},
	Short:   "Unpin a board",
	Args:    cobra.ExactArgs(1),
	RunE:    runPinsRm,
}

func init() {
	rootCmd.AddCommand(pinsCmd)
	pinsCmd.AddCommand(pinsListCmd, pinsAddCmd, pinsRmCmd)
}

func runPinsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	pins, err := s.pins.List(ctx, s.login)
	if err != nil {
		return err
	}

	printPins(pins)
	return nil
}

func runPinsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	pins, err := s.pins.Add(ctx, s.login, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Pinned %s\n\n", pins[0].URL())
	printPins(pins)
	return nil
}

func runPinsRm(cmd *cobra.Command, args []string) error {
	project, err := domain.ParseProjectURL(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	pins, err := s.pins.Remove(ctx, s.login, project)
	if err != nil {
		return err
	}

	fmt.Printf("Unpinned %s\n\n", project.URL())
	printPins(pins)
	return nil
}

func printPins(pins []domain.PinnedProject) {
	if len(pins) == 0 {
		fmt.Println("No pinned boards.")
		return
	}

	for i, pin := range pins {
		fmt.Printf("%2d. %s\n", i+1, pin.URL())
	}
}
