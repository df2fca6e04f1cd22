package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/songnet/errors"
)

// ConsoleCmd drives a headless session from a prompt
var ConsoleCmd = &cobra.Command{
	Use:   "console [dataset]",
	Short: "Drive a layout session from an interactive prompt",
	Long: `Start a headless layout session and read commands from stdin.
Arguments are split like a shell, so quote terms that contain spaces.

Commands:
  load <path|url>       Replace the dataset
  layout force|radial   Switch layout
  filter all|popular|obscure
  sort songs|links
  search <term>         Mark matching songs ("" clears)
  hover <id> / unhover
  wait                  Block until the layout settles
  status                Show the session status
  show                  Print visible nodes
  help, quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConsole,
}

const consolePrompt = "songnet> "

// consoleWaitTimeout bounds the wait command
const consoleWaitTimeout = 30 * time.Second

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := startSession(cfg, headlessTick)
	if err != nil {
		return err
	}
	defer sess.Stop()

	c := &console{sess: sess, out: cmd.OutOrStdout()}
	if len(args) == 1 {
		if err := c.exec(commandContext(cmd), "load "+shellquote.Join(args[0])); err != nil {
			return err
		}
	}
	return c.run(commandContext(cmd), cmd.InOrStdin())
}

// console executes prompt lines against a running session
type console struct {
	sess *runningSession
	out  io.Writer
	quit bool
}

// run reads lines until EOF or quit. Command errors are printed, not returned.
func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(c.out, consolePrompt)
	for scanner.Scan() {
		if err := c.exec(ctx, scanner.Text()); err != nil {
			fmt.Fprintln(c.out, "error:", err)
			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintln(c.out, "hint:", hint)
			}
		}
		if c.quit {
			return nil
		}
		fmt.Fprint(c.out, consolePrompt)
	}
	return errors.Wrap(scanner.Err(), "failed to read input")
}

// exec runs one line
func (c *console) exec(ctx context.Context, line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return errors.WithHint(errors.Wrap(err, "cannot parse line"), "check for an unterminated quote")
	}
	if len(args) == 0 {
		return nil
	}

	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "quit", "exit":
		c.quit = true
		return nil

	case "help":
		fmt.Fprintln(c.out, "load, layout, filter, sort, search, hover, unhover, wait, status, show, quit")
		return nil

	case "load":
		if err := needArgs(name, rest, 1); err != nil {
			return err
		}
		if err := loadDataset(ctx, c.sess, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "loaded %s\n", rest[0])
		return nil

	case "layout", "filter", "sort":
		if err := needArgs(name, rest, 1); err != nil {
			return err
		}
		switch name {
		case "layout":
			return c.sess.UpdateLayout(rest[0])
		case "filter":
			return c.sess.UpdateFilter(rest[0])
		default:
			return c.sess.UpdateSort(rest[0])
		}

	case "search":
		// all words form one term, so `search gamma ray` works unquoted
		matches, err := c.sess.UpdateSearch(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%d match(es): %s\n", len(matches), strings.Join(matches, " "))
		return nil

	case "hover":
		if err := needArgs(name, rest, 1); err != nil {
			return err
		}
		return c.sess.HoverEnter(rest[0])

	case "unhover":
		return c.sess.HoverExit()

	case "wait":
		wctx, cancel := context.WithTimeout(ctx, consoleWaitTimeout)
		defer cancel()
		if err := c.sess.WaitSettled(wctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "settled")
		return nil

	case "status":
		st, err := c.sess.Status()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "layout=%s filter=%s sort=%s settled=%t nodes=%d edges=%d generation=%d\n",
			st.Mode, st.Filter, st.Sort, st.Settled, st.Visible, st.VisibleEdges, st.Generation)
		if len(st.Groups) > 0 {
			fmt.Fprintf(c.out, "groups: %s\n", strings.Join(st.Groups, ", "))
		}
		return nil

	case "show":
		table, err := pterm.DefaultTable.WithHasHeader().WithData(nodeRows(c.sess.Snapshot())).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render table")
		}
		fmt.Fprintln(c.out, table)
		return nil

	default:
		return errors.WithHint(errors.Newf("unknown command %q", name), "type help for the command list")
	}
}

func needArgs(name string, args []string, n int) error {
	if len(args) != n {
		return errors.Newf("%s takes %d argument(s), got %d", name, n, len(args))
	}
	return nil
}
