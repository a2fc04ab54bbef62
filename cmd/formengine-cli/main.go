package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/CodeSapiens-in/formengine/pkg/formfile"
	"github.com/CodeSapiens-in/formengine/pkg/openapi"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/renderers/html"
	"github.com/CodeSapiens-in/formengine/pkg/renderers/tui"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage/memory"
	"github.com/CodeSapiens-in/formengine/pkg/views"
)

func main() {
	formPath := flag.String("form", "", "form definition YAML path")
	source := flag.String("source", "", "OpenAPI document path")
	opID := flag.String("operation", "", "operationId to import when -source is set")
	rendererName := flag.String("renderer", "html", "renderer to use (html or tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	respondent := flag.String("respondent", "operator", "respondent id for the submission session")
	flag.Parse()

	ctx := context.Background()

	form, err := loadForm(ctx, *formPath, *source, *opID)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	store := memory.New()
	formID, err := store.UpsertForm(ctx, form)
	if err != nil {
		log.Fatalf("Failed to stage form: %v", err)
	}

	registry := render.NewRegistry()
	mustRegister(registry, mustHTML())
	mustRegister(registry, mustTUI())

	renderer, err := registry.Get(*rendererName)
	if err != nil {
		log.Fatalf("Unknown renderer %q: %v", *rendererName, err)
	}

	view, err := views.NewSubmissionView(ctx, store, store, formID, *respondent)
	if err != nil {
		log.Fatalf("Failed to open submission view: %v", err)
	}
	defer view.Close()

	out, err := view.Render(ctx, renderer)
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	// The TUI session collects answers while rendering; persist and report
	// the resulting answer set.
	if *rendererName == "tui" && view.Mode() == render.ModeEditable {
		if err := view.Submit(ctx); err != nil {
			log.Fatalf("Failed to submit answers: %v", err)
		}
		set, err := store.GetAnswerSet(ctx, formID, *respondent)
		if err != nil {
			log.Fatalf("Failed to read back answer set: %v", err)
		}
		out, err = json.MarshalIndent(set, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode answer set: %v", err)
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func loadForm(ctx context.Context, formPath, source, opID string) (schema.Form, error) {
	switch {
	case formPath != "":
		return formfile.Load(formPath)
	case source != "":
		if opID == "" {
			return schema.Form{}, fmt.Errorf("-operation is required with -source")
		}
		return openapi.ImportForm(ctx, source, opID)
	default:
		return schema.Form{}, fmt.Errorf("either -form or -source is required")
	}
}

func mustHTML() render.Renderer {
	r, err := html.New()
	if err != nil {
		log.Fatalf("html renderer: %v", err)
	}
	return r
}

func mustTUI() render.Renderer {
	r, err := tui.New()
	if err != nil {
		log.Fatalf("tui renderer: %v", err)
	}
	return r
}

func mustRegister(registry *render.Registry, renderer render.Renderer) {
	if err := registry.Register(renderer); err != nil {
		log.Fatalf("register renderer: %v", err)
	}
}
