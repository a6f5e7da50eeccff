// Package demo is the application served by the ive command. It exercises
// each part of the runtime: a counter cell, parameterised routes, a lazily
// loaded route and an asynchronous page.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/el"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/router"
	"github.com/ive-dev/ive/pkg/snapshot"
)

// Paths lists every page of the demo, for export.
var Paths = []string{"/", "/users/1", "/users/2", "/about", "/team"}

// Latency is how long the simulated fetches on /about and /team take.
var Latency = 50 * time.Millisecond

var team = []string{"Ada", "Grace", "Linus"}

type userParams struct {
	ID int `param:"id"`
}

// App returns the demo application mounted under mount.
func App(mount string) snapshot.App {
	return func(rt *ive.Runtime) error {
		win := rt.Window()
		count := ive.NewState(rt, 0)

		counter := ive.Watch1(rt, count, func(n int, _ ive.Props) *dom.Node {
			return el.H("div", el.Props{"class": "counter"},
				el.H("span", nil, el.Textf("Count: %d", n)),
				el.H("button", el.Props{
					"on:click": func() { count.Update(func(v int) int { return v + 1 }) },
				}, "+"),
				el.H("button", el.Props{
					"on:click": func() { count.Set(0) },
				}, "reset"),
			)
		})

		about := ive.Go(rt.Loop(), context.Background(), func(context.Context) (router.Module, error) {
			time.Sleep(Latency)
			return router.Module{Default: aboutPage}, nil
		})

		var teamView *ive.Binding
		r := router.New(rt, mount, []router.Route{
			{Pattern: "/", Handler: router.Func(func(router.Params) *dom.Node {
				return el.H("section", nil,
					el.H("h1", nil, "Home"),
					counter.Render(nil),
				)
			})},
			{Pattern: "/users/{id}", Handler: router.Func(userPage)},
			{Pattern: "/about", Handler: router.Lazy(about)},
			{Pattern: "/team", Handler: router.Func(func(router.Params) *dom.Node {
				// Every visit fetches again and drops the previous view.
				if teamView != nil {
					teamView.Dispose()
				}
				teamView = teamPage(rt)
				return el.H("section", nil, el.H("h1", nil, "Team"), teamView.Render(nil))
			})},
		}, router.WithNotFound(notFoundPage), router.WithLogger(rt.Logger()))

		link := func(href, label string) *dom.Node {
			return router.Link(win, joinMount(mount, href), label, router.LogErrors(rt.Logger()))
		}
		rt.Mount(el.H("div", el.Props{"id": "app"},
			el.H("nav", nil,
				link("/", "Home"),
				link("/users/1", "User 1"),
				link("/users/2", "User 2"),
				link("/about", "About"),
				link("/team", "Team"),
			),
			el.H("main", nil, r.Render()),
		))
		return nil
	}
}

func userPage(p router.Params) *dom.Node {
	var up userParams
	if err := p.Decode(&up); err != nil {
		return el.H("section", nil,
			el.H("h1", nil, "Invalid user"),
			el.H("p", nil, p.Get("id")),
		)
	}
	return el.H("section", nil,
		el.H("h1", nil, el.Textf("User %d", up.ID)),
		el.H("p", nil, fmt.Sprintf("Profile of user #%d.", up.ID)),
	)
}

func aboutPage(router.Params) *dom.Node {
	return el.H("section", nil,
		el.H("h1", nil, "About"),
		el.H("p", nil, "This page was loaded on demand."),
	)
}

// teamPage waits for a simulated fetch.
func teamPage(rt *ive.Runtime) *ive.Binding {
	fut := ive.Go(rt.Loop(), context.Background(), func(ctx context.Context) ([]string, error) {
		select {
		case <-time.After(Latency):
			return team, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	return ive.Wait(rt, fut,
		func(names []string, _ ive.Props) *dom.Node {
			items := make([]any, 0, len(names))
			for _, name := range names {
				items = append(items, el.H("li", nil, name))
			}
			return el.H("ul", el.Props{"class": "team"}, items)
		},
		ive.WithLoading(func(ive.Props) *dom.Node {
			return el.H("p", el.Props{"class": "loading"}, "Loading team...")
		}),
		ive.WithError(func(err error, _ ive.Props) *dom.Node {
			return el.H("p", el.Props{"class": "error"}, err.Error())
		}),
	)
}

func notFoundPage(path string) *dom.Node {
	return el.H("section", nil,
		el.H("h1", nil, "Not found"),
		el.H("p", nil, path),
	)
}

func joinMount(mount, href string) string {
	if mount == "" || mount == "/" {
		return href
	}
	if mount[len(mount)-1] == '/' {
		mount = mount[:len(mount)-1]
	}
	if href == "/" {
		return mount + "/"
	}
	return mount + href
}
