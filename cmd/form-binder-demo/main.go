// Package main demonstrates the validation binding against a small signup
// form model: a validator reports dotted error paths, the binder resolves
// them to (owner, field) references and publishes per-field messages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"

	"form-binder/binder"
	"form-binder/messages"
)

type profile struct {
	DisplayName string
}

type address struct {
	City string
}

// scratchPad is deliberately left without a validator: nothing under it ever
// produces a message.
type scratchPad struct {
	Text string
}

type signupForm struct {
	Email     string
	Profile   *profile
	Addresses []address
	Notes     *scratchPad
}

func validateSignup(_ context.Context, m any, opts binder.Options) ([]binder.Issue, error) {
	f := m.(*signupForm)

	var out []binder.Issue

	add := func(path, msg string) bool {
		out = append(out, binder.Issue{Path: path, Message: msg})
		return opts.Cascade == binder.CascadeStopOnFirstFailure
	}

	if f.Email == "" {
		if add("Email", "email is required") {
			return out, nil
		}
	}

	if f.Profile != nil && f.Profile.DisplayName == "" {
		if add("Profile.DisplayName", "display name is required") {
			return out, nil
		}
	}

	for i, a := range f.Addresses {
		if a.City == "" {
			if add(fmt.Sprintf("Addresses[%d].City", i), "city is required") {
				return out, nil
			}
		}
	}

	return out, nil
}

func main() {
	optionsPath := flag.String("options", "", "YAML options file (hot-reloaded while running)")
	debug := flag.Bool("debug", false, "dump the final message store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := binder.Options{}
	if *optionsPath != "" {
		loaded, err := binder.LoadOptions(*optionsPath)
		if err != nil {
			log.Error("loading options", "err", err)
			os.Exit(1)
		}
		opts = loaded
		log.Info("options loaded", "cascade", opts.Cascade)
	}

	reg := binder.NewRegistry()
	reg.Register(&signupForm{}, binder.ValidatorFunc(validateSignup))

	store := messages.NewMemory()
	store.OnChanged = func() {
		log.Info("message store changed", "fields", store.Len())
	}

	b := binder.New(reg, store, opts)

	reload := make(chan binder.Options, 1)
	if *optionsPath != "" {
		stop, err := watchOptions(*optionsPath, reload, log)
		if err != nil {
			log.Error("watching options", "err", err)
			os.Exit(1)
		}
		defer stop()
	}

	form := &signupForm{
		Profile:   &profile{},
		Addresses: []address{{City: "Utrecht"}, {}},
		Notes:     &scratchPad{Text: "not validated"},
	}

	// The edit script a form UI would drive through its callbacks.
	steps := []struct {
		desc string
		run  func(ctx context.Context) error
	}{
		{desc: "initial submit", run: func(ctx context.Context) error {
			return b.ValidateModel(ctx, form)
		}},
		{desc: "user fills in email", run: func(ctx context.Context) error {
			form.Email = "ada@example.com"
			return b.ValidateField(ctx, form, "Email")
		}},
		{desc: "user names the profile", run: func(ctx context.Context) error {
			form.Profile.DisplayName = "Ada"
			return b.ValidateField(ctx, form, "Profile")
		}},
		{desc: "second address gets a city", run: func(ctx context.Context) error {
			form.Addresses[1].City = "Delft"
			return b.ValidateField(ctx, form, "Addresses")
		}},
	}

	ctx := context.Background()

	for _, step := range steps {
		select {
		case next := <-reload:
			b = binder.New(reg, store, next)
			log.Info("options reloaded", "cascade", next.Cascade)
		default:
		}

		if err := step.run(ctx); err != nil {
			log.Error("validation pass failed", "step", step.desc, "err", err)
			os.Exit(1)
		}

		fmt.Printf("-- %s\n", step.desc)
		printStore(form, store)
	}

	if *debug {
		spew.Dump(store)
	}
}

func printStore(form *signupForm, store *messages.Memory) {
	if store.Len() == 0 {
		fmt.Println("   (no messages)")
		return
	}

	for _, ref := range store.Refs() {
		for _, msg := range store.Messages(ref) {
			fmt.Printf("   %s.%s: %s\n", ownerLabel(form, ref.Owner), ref.Name, msg)
		}
	}
}

func ownerLabel(form *signupForm, owner any) string {
	switch o := owner.(type) {
	case *signupForm:
		return "form"
	case *profile:
		return "form.Profile"
	case *address:
		for i := range form.Addresses {
			if &form.Addresses[i] == o {
				return fmt.Sprintf("form.Addresses[%d]", i)
			}
		}
		return "form.Addresses[?]"
	default:
		return fmt.Sprintf("%T", owner)
	}
}
