package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/mfagan/canondrift/internal/config"
	"github.com/mfagan/canondrift/internal/logger"
	"github.com/mfagan/canondrift/internal/storage"
	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/excavate"
	"github.com/mfagan/canondrift/pkg/ontology"
	"github.com/mfagan/canondrift/pkg/pattern"
	"github.com/mfagan/canondrift/pkg/timeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	driftStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

func main() {
	_ = godotenv.Load()

	corpusPath := flag.String("corpus", "", "path to a corpus JSON file")
	patternsPath := flag.String("patterns", "", "optional pattern catalogue YAML to merge with the builtins")
	walk := flag.String("path", "", "comma-separated beat IDs to replay (default: the full authored order)")
	save := flag.Bool("save", false, "persist the final story state to Redis")
	flag.Parse()

	if *corpusPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -corpus <corpus.json> [-patterns <catalogue.yaml>] [-path id1,id2,...] [-save]\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg)

	corpus, err := beat.LoadCorpus(*corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load corpus: %v\n", err)
		os.Exit(1)
	}

	library := pattern.Builtin()
	if *patternsPath != "" {
		extra, err := pattern.Load(*patternsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load pattern catalogue: %v\n", err)
			os.Exit(1)
		}
		library.Merge(extra)
	}

	excavator := excavate.NewExcavator(library, log)
	builder := ontology.NewBuilder(excavator, log)
	validator := timeline.NewValidator(corpus, excavator, builder, log)

	referenceID := corpus.Name
	if referenceID == "" {
		referenceID = "reference"
	}
	if err := builder.RegisterReference(referenceID, corpus.Beats); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register reference narrative: %v\n", err)
		os.Exit(1)
	}
	validator.SetVariant("replay", referenceID)

	// The authored canon is the beat set itself plus every canonical action.
	for _, b := range corpus.Beats {
		validator.RegisterCanonicalBeat(b.ID)
		for characterID, actions := range b.Actions {
			for _, action := range actions {
				if action.IsCanonical {
					validator.RegisterCanonicalAction(characterID, action)
				}
			}
		}
	}

	path, err := resolvePath(corpus, *walk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Replaying %d beats of %q", len(path), corpus.Name)))

	st := beat.NewStoryState(corpus.Name, path[0])
	accepted, rejected := 0, 0
	for _, next := range path[1:] {
		result := validator.ValidateTransition(st, next)
		if result.Allowed {
			accepted++
			fmt.Printf("%s %s -> %s  %s\n",
				acceptStyle.Render("accept"),
				st.CurrentBeatID, next.ID,
				driftStyle.Render(fmt.Sprintf("drift=%.3f", result.Drift)))
			st.Advance(next, result.Drift)
			continue
		}
		rejected++
		fmt.Printf("%s %s -> %s  %s (%s)\n",
			rejectStyle.Render("reject"),
			st.CurrentBeatID, next.ID,
			driftStyle.Render(fmt.Sprintf("drift=%.3f", result.Drift)),
			result.Reason)
	}

	summary := fmt.Sprintf("accepted %d  rejected %d\nfinal beat %s\nfinal drift %.3f",
		accepted, rejected, st.CurrentBeatID, st.CanonicalDrift)
	if mapping, ok := builder.Mapping("replay"); ok {
		summary += fmt.Sprintf("\ncanonical fidelity %.3f", mapping.CanonicalFidelity)
	}
	fmt.Println(summaryStyle.Render(summary))

	if *save {
		if cfg.RedisURL == "" {
			fmt.Fprintf(os.Stderr, "REDIS_URL is not set; cannot save story state\n")
			os.Exit(1)
		}
		store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("Failed to close storage", "error", err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.SaveStoryState(ctx, st.ID, st); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save story state: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved story state %s\n", st.ID)
	}
}

// resolvePath expands the -path flag into beats, defaulting to authored order.
func resolvePath(corpus *beat.Corpus, walk string) ([]*beat.NarrativeBeat, error) {
	if walk == "" {
		if corpus.Len() < 2 {
			return nil, fmt.Errorf("corpus %q has too few beats to replay", corpus.Name)
		}
		return corpus.Beats, nil
	}

	ids := strings.Split(walk, ",")
	if len(ids) < 2 {
		return nil, fmt.Errorf("-path needs at least two beat IDs")
	}
	path := make([]*beat.NarrativeBeat, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		b := corpus.Get(id)
		if b == nil {
			return nil, fmt.Errorf("beat %q is not in corpus %q", id, corpus.Name)
		}
		path = append(path, b)
	}
	return path, nil
}
