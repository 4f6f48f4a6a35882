package main

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/graphcol"
	"github.com/arloliu/graphcol/format"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>...",
		Short: "Print header statistics of chunk files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, release, err := openChunk(path)
				if err != nil {
					return err
				}

				stats, err := graphcol.ReadStats(data)
				release()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				cmd.Printf("%s\n", path)
				cmd.Printf("  namespace:  %s\n", stats.Namespace)
				cmd.Printf("  triples:    %d\n", stats.TripleCount)
				cmd.Printf("  predicates: %s\n", strings.Join(stats.Predicates, ", "))
				cmd.Printf("  timestamps: %d..%d\n", stats.MinTimestamp, stats.MaxTimestamp)
				cmd.Printf("  size:       %d bytes\n", stats.SizeBytes)
			}

			return nil
		},
	}
}

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Verify checksums and structure by fully decoding chunk files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				path    string
				triples int
				err     error
			}

			results := make([]result, len(args))

			g := new(errgroup.Group)
			g.SetLimit(runtime.GOMAXPROCS(0))
			var mu sync.Mutex
			for i, path := range args {
				g.Go(func() error {
					data, release, err := openChunk(path)
					if err == nil {
						var triples []graphcol.Triple
						triples, err = graphcol.Decode(data)
						release()

						mu.Lock()
						results[i] = result{path: path, triples: len(triples), err: err}
						mu.Unlock()

						return nil
					}

					mu.Lock()
					results[i] = result{path: path, err: err}
					mu.Unlock()

					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
					cmd.Printf("FAIL %s: %v\n", r.path, r.err)
				} else {
					cmd.Printf("OK   %s (%d triples)\n", r.path, r.triples)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed verification", failed, len(args))
			}

			return nil
		},
	}
}

func newEntitiesCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "entities <file>",
		Short: "List the entity index of a V2 chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, release, err := openChunk(args[0])
			if err != nil {
				return err
			}
			defer release()

			index, err := graphcol.ReadEntityIndex(data)
			if err != nil {
				return err
			}

			entries := index.Entries
			if prefix != "" {
				entries = index.LookupPrefix(prefix)
			}
			for _, e := range entries {
				cmd.Printf("%s\trows %d..%d\n", e.EntityID, e.Offset, e.Offset+e.Length)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only list entities with this id prefix")

	return cmd
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <entity-id>",
		Short: "Print the triples of one entity from a V2 chunk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, release, err := openChunk(args[0])
			if err != nil {
				return err
			}
			defer release()

			triples, ok, err := graphcol.DecodeEntity(data, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("entity %q not found", args[1])
			}

			printTriples(cmd, triples)

			return nil
		},
	}
}

func newDumpCommand() *cobra.Command {
	var predicates []string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Decode and print every triple of a chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, release, err := openChunk(args[0])
			if err != nil {
				return err
			}
			defer release()

			var opts []graphcol.DecodeOption
			if len(predicates) > 0 {
				opts = append(opts, graphcol.WithPredicates(predicates...))
			}

			triples, err := graphcol.Decode(data, opts...)
			if err != nil {
				return err
			}

			printTriples(cmd, triples)

			return nil
		},
	}
	cmd.Flags().StringSliceVar(&predicates, "predicate", nil, "only dump triples with these predicates")

	return cmd
}

func printTriples(cmd *cobra.Command, triples []graphcol.Triple) {
	for _, t := range triples {
		cmd.Printf("%s\t%s\t%s\t%d\t%s\n", t.Subject, t.Predicate, formatValue(t.Object), t.Timestamp, t.TxID)
	}
}

func formatValue(v graphcol.Value) string {
	switch v.Type {
	case format.TypeNull:
		return "null"
	case format.TypeBool:
		return fmt.Sprintf("%s(%t)", v.Type, v.Bool)
	case format.TypeInt32, format.TypeInt64, format.TypeTimestamp, format.TypeDate:
		return fmt.Sprintf("%s(%d)", v.Type, v.Int)
	case format.TypeFloat64:
		return fmt.Sprintf("%s(%g)", v.Type, v.Float)
	case format.TypeBinary:
		return fmt.Sprintf("%s(%d bytes)", v.Type, len(v.Bytes))
	case format.TypeRefArray:
		return fmt.Sprintf("%s[%s]", v.Type, strings.Join(v.Refs, ", "))
	case format.TypeGeoPoint:
		return fmt.Sprintf("%s(%g, %g)", v.Type, v.Geo.Lat, v.Geo.Lng)
	default:
		return fmt.Sprintf("%s(%s)", v.Type, v.Str)
	}
}
