package sim

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BuildFunc creates an independent simulator for one ensemble member.
type BuildFunc func(seed int64) (*Simulator, error)

// Ensemble runs the same configuration over consecutive seeds concurrently.
type Ensemble struct {
	build     BuildFunc
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit bounds the number of members running at once. n <= 0 means no limit.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns one result per seed, in seed order. The first failing member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, err := e.build(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stat summarizes one metric across ensemble members.
type Stat struct {
	Name string
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summarize aggregates the per-run means of every metric, sorted by name.
func Summarize(results []*Result) []Stat {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	stats := make([]Stat, 0, len(values))
	for name, vs := range values {
		st := Stat{Name: name, Mean: mean(vs), Min: math.Inf(1), Max: math.Inf(-1)}
		for _, v := range vs {
			st.Std += (v - st.Mean) * (v - st.Mean)
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
		}
		st.Std = math.Sqrt(st.Std / float64(len(vs)))
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}
