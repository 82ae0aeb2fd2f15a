package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Step is one publishing procedure. Dependencies name tags of steps that
// must run first; tags with no registered step are assumed to be published
// by another tool and are not checked here.
type Step struct {
	Name         string
	Tags         []string
	Dependencies []string
	Skip         func(env *Env) bool
	Run          func(ctx context.Context, env *Env) error
}

type Runner struct {
	steps []Step
	byTag map[string][]int
}

func NewRunner(steps ...Step) (*Runner, error) {
	r := &Runner{byTag: make(map[string][]int)}
	seen := make(map[string]bool)
	for i, s := range steps {
		if s.Name == "" || s.Run == nil {
			return nil, fmt.Errorf("step %d: name and run are required", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate step %s", s.Name)
		}
		seen[s.Name] = true
		r.steps = append(r.steps, s)

		tags := s.Tags
		if len(tags) == 0 {
			tags = []string{s.Name}
		}
		for _, t := range tags {
			r.byTag[t] = append(r.byTag[t], i)
		}
	}
	return r, nil
}

// Plan returns the steps selected by tags, each preceded by its
// dependencies. No tags selects every step.
func (r *Runner) Plan(tags []string) ([]Step, error) {
	var roots []int
	if len(tags) == 0 {
		for i := range r.steps {
			roots = append(roots, i)
		}
	} else {
		for _, t := range tags {
			idx, ok := r.byTag[t]
			if !ok {
				return nil, fmt.Errorf("no step tagged %q", t)
			}
			roots = append(roots, idx...)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(r.steps))
	var (
		order []Step
		path  []string
	)

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle: %s -> %s", strings.Join(path, " -> "), r.steps[i].Name)
		}
		state[i] = visiting
		path = append(path, r.steps[i].Name)
		for _, dep := range r.steps[i].Dependencies {
			for _, j := range r.byTag[dep] {
				if err := visit(j); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		state[i] = done
		order = append(order, r.steps[i])
		return nil
	}

	for _, i := range roots {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Run executes the planned steps one after another and stops at the first
// error. Steps completed before the failure stay published.
func (r *Runner) Run(ctx context.Context, env *Env, tags []string) error {
	plan, err := r.Plan(tags)
	if err != nil {
		return err
	}
	for _, s := range plan {
		for _, dep := range s.Dependencies {
			if _, ok := r.byTag[dep]; !ok {
				log.Debug("Dependency provided externally", "step", s.Name, "dependency", dep)
			}
		}
		if s.Skip != nil && s.Skip(env) {
			log.Info("Skipping step", "step", s.Name, "network", env.Network)
			continue
		}
		log.Info("Running step", "step", s.Name, "network", env.Network)
		if err := s.Run(ctx, env); err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}
	}
	return nil
}
