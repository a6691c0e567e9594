package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/gate"
	"github.com/you/clinicgate/internal/infrastructure/store"
	"github.com/you/clinicgate/internal/routes"
	"github.com/you/clinicgate/internal/session"
)

// gatecheck loads the session file a client deployment persists,
// rehydrates a provider from it and prints the gate decision for a
// route. Useful for verifying what a user would see without running
// the full service.
func main() {
	sessionFile := flag.String("session", defaultSessionFile(), "path to the persisted session file")
	route := flag.String("route", "", "route to evaluate (required)")
	rolesArg := flag.String("roles", "", "comma-separated allowed roles; empty admits any authenticated role")
	flag.Parse()

	if *route == "" {
		flag.Usage()
		os.Exit(2)
	}

	var required []domain.Role
	if *rolesArg != "" {
		for _, part := range strings.Split(*rolesArg, ",") {
			role, err := domain.ParseRole(strings.TrimSpace(part))
			if err != nil {
				log.Fatalf("unknown role %q", part)
			}
			required = append(required, role)
		}
	}

	ctx := context.Background()
	provider := session.NewProvider(store.NewFileStore(*sessionFile, zap.NewNop()), zap.NewNop())
	provider.Rehydrate(ctx)

	snap := provider.Snapshot()
	switch {
	case snap.IsAuthenticated():
		fmt.Printf("session: %s (%s)\n", snap.Session.ID, snap.Role())
	default:
		fmt.Println("session: none")
	}

	decision := gate.New(routes.New()).Protected(snap, required, *route)
	switch decision.Outcome {
	case gate.OutcomeRender:
		fmt.Printf("%s -> render\n", *route)
	case gate.OutcomeRedirect:
		if decision.Replay != "" {
			fmt.Printf("%s -> redirect %s (replay %s)\n", *route, decision.Target, decision.Replay)
		} else {
			fmt.Printf("%s -> redirect %s\n", *route, decision.Target)
		}
	default:
		fmt.Printf("%s -> pending\n", *route)
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clinicgate/session.json"
	}
	return home + "/.clinicgate/session.json"
}
