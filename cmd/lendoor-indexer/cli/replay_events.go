package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/memdb"
	"github.com/lendoor/lendoor-indexer/internal/observability/tracing"
	"github.com/lendoor/lendoor-indexer/internal/services"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

// a VaultStatus line with padded amounts stays well below this
const maxLineSize = 1 << 20

func ReplayEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay-events <file>",
		Short: "Applies a JSON lines file of decoded events in order",
		Long: "Applies a JSON lines file of decoded events in order. Events already " +
			"applied to the store are skipped, so an interrupted replay can be restarted.",
		Args: cobra.ExactArgs(1),
		RunE: replayEvents,
	}

	cmd.Flags().Bool("dry-run", false, "Apply the events to an in-memory store and dump the resulting stats")
	cmd.Flags().Bool("dump", false, "Dump every decoded event")

	return cmd
}

func replayEvents(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	dump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var store db.DbInterface
	if dryRun {
		store = memdb.New()
	} else {
		var closeStore func()
		store, closeStore, err = openStore(ctx, &cfg.Db)
		if err != nil {
			return err
		}
		defer closeStore()
	}

	out := cmd.OutOrStdout()
	var onEvent func(event *types.Event)
	if dump {
		onEvent = func(event *types.Event) {
			spew.Fdump(out, event)
		}
	}

	service := services.NewService(cfg, store)
	result, err := replay(ctx, f, service, onEvent)
	log.Ctx(ctx).Info().
		Int("events", result.events).
		Int("skipped", result.skipped).
		Msg("Replay finished")
	if err != nil {
		return err
	}

	if dryRun {
		stat, err := store.GetProtocolStat(ctx)
		if err != nil && !db.IsNotFoundError(err) {
			return err
		}
		spew.Fdump(out, stat)
	}
	return nil
}

type replayResult struct {
	events  int
	skipped int
}

// replay applies every line of r in order. Malformed events are counted and
// skipped, a store failure stops the replay.
func replay(ctx context.Context, r io.Reader, service *services.Service, onEvent func(*types.Event)) (replayResult, error) {
	var result replayResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var event types.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		if onEvent != nil {
			onEvent(&event)
		}

		result.events++
		if perr := service.ProcessEventWithRetry(ctx, &event); perr != nil {
			if perr.ErrorCode != types.ValidationError {
				return result, fmt.Errorf("line %d: %w", line, perr)
			}
			result.skipped++
		}
	}

	return result, scanner.Err()
}
