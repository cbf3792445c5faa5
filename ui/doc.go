// Package ui provides the HTTP surface for BrainSurgeon.
//
// It combines the JSON API (ui/api) and the rendered summary pages
// (ui/frontend) into one http.Handler.
//
// # Quick Start
//
//	st := store.New(cfg.Root, logger)
//	svc := service.New(
//	    st,
//	    prune.NewEngine(logger),
//	    trash.NewManager(st, nil, logger),
//	    gateway.NewRestarter("", logger),
//	    nil, // default summary policy
//	    audit.NewTrail(logger),
//	)
//
//	http.ListenAndServe(":8654", ui.Handler(svc, &ui.Config{
//	    APIKeys:  []string{os.Getenv("BRAINSURGEON_API_KEY")},
//	    ReadOnly: false,
//	}))
//
// The handler is a standard http.Handler; wrap it with extra middleware
// or mount it under a prefix with http.StripPrefix as needed.
package ui
