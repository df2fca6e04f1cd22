package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/session"
)

// LayoutCmd settles a layout without a server and prints the result
var LayoutCmd = &cobra.Command{
	Use:   "layout <dataset>",
	Short: "Settle a layout headlessly and print node positions",
	Long: `Load a dataset, apply the requested layout, filter and sort, run the
engine until it settles and print every visible node.

Examples:
  songnet layout songs.json
  songnet layout songs.yaml --mode radial --sort links
  songnet layout https://example.com/songs.json --filter popular --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

var (
	layoutMode    string
	layoutFilter  string
	layoutSort    string
	layoutSearch  string
	layoutJSON    bool
	layoutTimeout time.Duration
)

func init() {
	LayoutCmd.Flags().StringVar(&layoutMode, "mode", "force", "Layout: force or radial")
	LayoutCmd.Flags().StringVar(&layoutFilter, "filter", "all", "Filter: all, popular or obscure")
	LayoutCmd.Flags().StringVar(&layoutSort, "sort", "songs", "Radial group order: songs or links")
	LayoutCmd.Flags().StringVar(&layoutSearch, "search", "", "Mark songs whose name contains this term")
	LayoutCmd.Flags().BoolVarP(&layoutJSON, "json", "j", false, "Print the snapshot as JSON")
	LayoutCmd.Flags().DurationVar(&layoutTimeout, "timeout", 30*time.Second, "Give up if the layout has not settled by then")
}

// layoutResult is the JSON form of a settled layout
type layoutResult struct {
	Status   session.Status  `json:"status"`
	Snapshot render.Snapshot `json:"snapshot"`
	Matches  []string        `json:"matches,omitempty"`
	Elapsed  string          `json:"elapsed"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := startSession(cfg, headlessTick)
	if err != nil {
		return err
	}
	defer sess.Stop()

	ctx, cancel := context.WithTimeout(commandContext(cmd), layoutTimeout)
	defer cancel()

	start := time.Now()
	if err := loadDataset(ctx, sess, args[0]); err != nil {
		return err
	}
	if err := applyModes(sess.Session, layoutMode, layoutFilter, layoutSort); err != nil {
		return err
	}

	var matches []string
	if layoutSearch != "" {
		if matches, err = sess.UpdateSearch(layoutSearch); err != nil {
			return err
		}
	}

	if err := sess.WaitSettled(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.WithHint(
				errors.Newf("layout did not settle within %s", layoutTimeout),
				"raise --timeout or simulation.alpha_min",
			)
		}
		return err
	}
	elapsed := time.Since(start)

	status, err := sess.Status()
	if err != nil {
		return err
	}
	result := layoutResult{
		Status:   status,
		Snapshot: sess.Snapshot(),
		Matches:  matches,
		Elapsed:  elapsed.Round(time.Millisecond).String(),
	}

	logger.Debugw("Layout settled",
		logger.FieldMode, status.Mode,
		logger.FieldNodes, status.Visible,
		logger.FieldDurationMS, elapsed.Milliseconds())

	if layoutJSON {
		return writeLayoutJSON(cmd.OutOrStdout(), result)
	}
	return printLayoutTable(result, verbosity)
}

// applyModes sets layout, filter and sort, skipping empty values
func applyModes(sess *session.Session, mode, filter, sort string) error {
	if filter != "" {
		if err := sess.UpdateFilter(filter); err != nil {
			return err
		}
	}
	if sort != "" {
		if err := sess.UpdateSort(sort); err != nil {
			return err
		}
	}
	if mode != "" {
		if err := sess.UpdateLayout(mode); err != nil {
			return err
		}
	}
	return nil
}

func writeLayoutJSON(w io.Writer, result layoutResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal layout")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// nodeRows formats a snapshot as table rows with a header
func nodeRows(snap render.Snapshot) [][]string {
	rows := [][]string{{"ID", "Song", "Artist", "Plays", "Radius", "X", "Y", "Style"}}
	for _, n := range snap.Nodes {
		rows = append(rows, []string{
			n.ID,
			n.Name,
			n.Artist,
			strconv.FormatFloat(n.Playcount, 'f', -1, 64),
			strconv.FormatFloat(n.Radius, 'f', 1, 64),
			strconv.FormatFloat(n.X, 'f', 1, 64),
			strconv.FormatFloat(n.Y, 'f', 1, 64),
			string(n.Style),
		})
	}
	return rows
}

func printLayoutTable(result layoutResult, verbosity int) error {
	if err := pterm.DefaultTable.WithHasHeader().WithData(nodeRows(result.Snapshot)).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	st := result.Status
	pterm.Println()
	pterm.Success.Printf("Settled %s layout (%d songs, %d links shown)\n", st.Mode, st.Visible, st.VisibleEdges)
	if len(result.Matches) > 0 {
		pterm.Info.Printf("Search matched: %v\n", result.Matches)
	}
	if logger.ShouldOutput(verbosity, logger.OutputLayout) {
		pterm.Info.Printf("Groups: %v, forces: %v\n", st.Groups, st.Forces)
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Info.Printf("Settled in %s over %d frames (alpha %.3f)\n", result.Elapsed, result.Snapshot.Frames, st.Alpha)
	}
	return nil
}
