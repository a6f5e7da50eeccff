package router

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/el"
	"github.com/ive-dev/ive/pkg/ive"
)

func newRuntime(t *testing.T, location string, opts ...ive.Option) *ive.Runtime {
	t.Helper()
	rt, err := ive.New(append([]ive.Option{ive.WithLocation(location)}, opts...)...)
	if err != nil {
		t.Fatalf("ive.New: %v", err)
	}
	t.Cleanup(rt.Close)
	return rt
}

func userPage(p Params) *dom.Node {
	return el.H("h1", nil, "user ", p.Get("id"))
}

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    Params
		ok      bool
	}{
		{"/users/{id}", "/users/42", Params{"id": "42"}, true},
		{"/users/{id}", "/users/42/edit", nil, false},
		{"/users/{id}", "/users/", nil, false},
		{"/users/{id}/posts/{post}", "/users/1/posts/x", Params{"id": "1", "post": "x"}, true},
		{"/", "/", Params{}, true},
		{"/a.b", "/axb", nil, false},
		{"/a.b", "/a.b", Params{}, true},
		{"/files/{name}.txt", "/files/readme.txt", Params{"name": "readme"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			re, names, err := compilePattern(tt.pattern)
			if err != nil {
				t.Fatalf("compilePattern: %v", err)
			}
			c := compiled{re: re, names: names}
			got, ok := c.match(tt.path)
			if ok != tt.ok {
				t.Fatalf("match ok = %v, want %v", ok, tt.ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("params = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("params[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestMalformedPatterns(t *testing.T) {
	for _, pattern := range []string{"/a/{}", "/a/{x}/{x}", "/a/{user-id}"} {
		if _, _, err := compilePattern(pattern); err == nil {
			t.Errorf("compilePattern(%q) succeeded", pattern)
		}
	}

	rt := newRuntime(t, "/a/1/2")
	r := New(rt, "/", []Route{
		{Pattern: "/a/{x}/{x}", Handler: Func(userPage)},
	})
	if got := r.LastResolution().Outcome; got != Unmatched {
		t.Errorf("outcome = %v, want unmatched", got)
	}
}

func TestRouterRendersMatchedPage(t *testing.T) {
	rt := newRuntime(t, "/users/7")
	r := New(rt, "/", []Route{
		{Pattern: "/", Handler: Static(el.H("p", nil, "home"))},
		{Pattern: "/users/{id}", Handler: Func(userPage)},
	})
	rt.Mount(r.Render())

	res := r.LastResolution()
	if res.Outcome != Matched || res.Pattern != "/users/{id}" || res.Params.Get("id") != "7" {
		t.Errorf("resolution = %+v", res)
	}
	if got := rt.Document().Body().TextContent(); got != "user 7" {
		t.Errorf("body = %q", got)
	}
}

func TestRouteToResolvesOnce(t *testing.T) {
	for _, replace := range []bool{false, true} {
		name := "push"
		if replace {
			name = "replace"
		}
		t.Run(name, func(t *testing.T) {
			rt := newRuntime(t, "/a")
			renders := 0
			r := New(rt, "/", []Route{
				{Pattern: "/a", Handler: Func(func(Params) *dom.Node { return el.H("p", nil, "a") })},
				{Pattern: "/b", Handler: Func(func(Params) *dom.Node {
					renders++
					return el.H("p", nil, "b")
				})},
			})
			rt.Mount(r.Render())

			var opts []NavigateOption
			if replace {
				opts = append(opts, WithReplace())
			}
			if err := RouteTo(rt.Window(), "/b", opts...); err != nil {
				t.Fatalf("RouteTo: %v", err)
			}

			if renders != 1 {
				t.Errorf("page rendered %d times, want 1", renders)
			}
			if got := rt.Document().Body().TextContent(); got != "b" {
				t.Errorf("body = %q", got)
			}
			wantLen := 2
			if replace {
				wantLen = 1
			}
			if got := rt.Window().History().Len(); got != wantLen {
				t.Errorf("history length = %d, want %d", got, wantLen)
			}
			st, _ := rt.Window().History().State().(dom.HistoryState)
			if st.Href != "/b" {
				t.Errorf("history state = %+v", st)
			}
		})
	}
}

func TestBackResolvesOnLoop(t *testing.T) {
	rt := newRuntime(t, "/a")
	r := New(rt, "/", []Route{
		{Pattern: "/{name}", Handler: Func(func(p Params) *dom.Node { return el.H("p", nil, p.Get("name")) })},
	})
	rt.Mount(r.Render())
	if err := RouteTo(rt.Window(), "/b"); err != nil {
		t.Fatal(err)
	}

	if !Back(rt.Window()) {
		t.Fatal("Back reported no entry")
	}
	body := rt.Document().Body()
	if got := body.TextContent(); got != "b" {
		t.Errorf("Back resolved synchronously: %q", got)
	}
	rt.Loop().Drain()
	if got := body.TextContent(); got != "a" {
		t.Errorf("after Back = %q, want a", got)
	}

	Forward(rt.Window())
	rt.Loop().Drain()
	if got := body.TextContent(); got != "b" {
		t.Errorf("after Forward = %q, want b", got)
	}
}

func TestNotFound(t *testing.T) {
	rt := newRuntime(t, "/app/missing")
	r := New(rt, "/app/", []Route{
		{Pattern: "/", Handler: Func(userPage)},
	}, WithNotFound(func(path string) *dom.Node {
		return el.H("p", nil, "no page at ", path)
	}))
	rt.Mount(r.Render())

	if got := r.LastResolution(); got.Outcome != NotFound || got.Path != "/missing" {
		t.Errorf("resolution = %+v", got)
	}
	if got := rt.Document().Body().TextContent(); got != "no page at /missing" {
		t.Errorf("body = %q", got)
	}
}

func TestUnmatchedKeepsPage(t *testing.T) {
	rt := newRuntime(t, "/")
	r := New(rt, "/", []Route{
		{Pattern: "/", Handler: Static(el.H("p", nil, "home"))},
	})
	rt.Mount(r.Render())
	if err := RouteTo(rt.Window(), "/nowhere"); err != nil {
		t.Fatal(err)
	}
	if got := r.LastResolution().Outcome; got != Unmatched {
		t.Errorf("outcome = %v", got)
	}
	if got := rt.Document().Body().TextContent(); got != "home" {
		t.Errorf("body = %q, want unchanged page", got)
	}
}

func TestEmptyPagePlaceholder(t *testing.T) {
	rt := newRuntime(t, "/x")
	r := New(rt, "/", nil)
	n := r.Render()
	if n.Tag() != "div" || n.ChildCount() != 0 {
		t.Errorf("placeholder = <%s>", n.Tag())
	}
}

func TestMountPrefixMismatch(t *testing.T) {
	rt := newRuntime(t, "/other/page")
	calls := 0
	r := New(rt, "/app", []Route{
		{Pattern: "/page", Handler: Func(func(Params) *dom.Node {
			calls++
			return el.H("p", nil)
		})},
	})
	res := r.LastResolution()
	if res.Outcome != NoMount || res.Path != "/other/page" {
		t.Errorf("resolution = %+v, want no_mount", res)
	}
	if calls != 0 {
		t.Error("page rendered outside mount")
	}
}

func TestMountPrefixStripping(t *testing.T) {
	tests := []struct {
		mount, path, want string
	}{
		{"/", "/x", "/x"},
		{"/app", "/app", "/"},
		{"/app", "/app/x", "/x"},
		{"/app/", "/app/x", "/x"},
	}
	for _, tt := range tests {
		r := &Router{mount: tt.mount}
		got, ok := r.strip(tt.path)
		if !ok || got != tt.want {
			t.Errorf("strip(%q, %q) = %q, %v; want %q", tt.mount, tt.path, got, ok, tt.want)
		}
	}
}

func TestLazyRoute(t *testing.T) {
	rt := newRuntime(t, "/lazy")
	fut, resolve, _ := ive.NewPromise[Module](rt.Loop())
	r := New(rt, "/", []Route{
		{Pattern: "/lazy", Handler: Lazy(fut)},
	})
	rt.Mount(r.Render())

	if got := r.LastResolution().Outcome; got != Pending {
		t.Fatalf("outcome = %v, want pending", got)
	}
	resolve(Module{Default: func(Params) *dom.Node { return el.H("p", nil, "loaded") }})
	rt.Loop().Drain()
	if got := rt.Document().Body().TextContent(); got != "loaded" {
		t.Errorf("body = %q", got)
	}
}

func TestLazyRouteSuperseded(t *testing.T) {
	rt := newRuntime(t, "/slow")
	fut, resolve, _ := ive.NewPromise[Module](rt.Loop())
	r := New(rt, "/", []Route{
		{Pattern: "/slow", Handler: Lazy(fut)},
		{Pattern: "/fast", Handler: Func(func(Params) *dom.Node { return el.H("p", nil, "fast") })},
	})
	rt.Mount(r.Render())

	if err := RouteTo(rt.Window(), "/fast"); err != nil {
		t.Fatal(err)
	}
	resolve(Module{Default: func(Params) *dom.Node { return el.H("p", nil, "slow") }})
	rt.Loop().Drain()

	if got := rt.Document().Body().TextContent(); got != "fast" {
		t.Errorf("body = %q, stale module replaced the page", got)
	}
}

func TestLazyRouteFailure(t *testing.T) {
	rt := newRuntime(t, "/broken")
	r := New(rt, "/", []Route{
		{Pattern: "/broken", Handler: Lazy(ive.Rejected[Module](rt.Loop(), errors.New("no chunk")))},
	})
	rt.Mount(r.Render())
	rt.Loop().Drain()

	if got := rt.Document().Body().Child(0); got.Tag() != "div" || got.ChildCount() != 0 {
		t.Errorf("failed module rendered <%s>", got.Tag())
	}
}

func TestCloseStopsListening(t *testing.T) {
	rt := newRuntime(t, "/a")
	r := New(rt, "/", []Route{{Pattern: "/{x}", Handler: Func(userPage)}})
	r.Close()
	if n := rt.Window().ListenerCount(dom.EventPopState); n != 0 {
		t.Errorf("listeners = %d after Close", n)
	}
	if err := RouteTo(rt.Window(), "/b"); err != nil {
		t.Fatal(err)
	}
	if got := r.LastResolution().Path; got != "/a" {
		t.Errorf("closed router resolved %q", got)
	}
}

func TestLink(t *testing.T) {
	rt := newRuntime(t, "/")
	r := New(rt, "/", []Route{
		{Pattern: "/", Handler: Func(func(Params) *dom.Node { return el.H("p", nil, "home") })},
		{Pattern: "/about", Handler: Func(func(Params) *dom.Node { return el.H("p", nil, "about") })},
	})
	link := Link(rt.Window(), "/about", "About")
	rt.Mount(link)
	rt.Mount(r.Render())

	if v, _ := link.Attribute("href"); v != "/about" {
		t.Errorf("href = %q", v)
	}
	if link.Click() {
		t.Error("link click was not prevented")
	}
	if rt.Window().Pathname() != "/about" || r.LastResolution().Pattern != "/about" {
		t.Errorf("location = %q, pattern = %q", rt.Window().Pathname(), r.LastResolution().Pattern)
	}
}

func TestLinkLogsFailedNavigation(t *testing.T) {
	rt := newRuntime(t, "/")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	link := Link(rt.Window(), "%zz", "Broken", LogErrors(logger))
	rt.Mount(link)
	link.Click()

	if got := rt.Window().Pathname(); got != "/" {
		t.Errorf("pathname = %q, want unchanged", got)
	}
	if out := buf.String(); !strings.Contains(out, "link navigation failed") || !strings.Contains(out, "%zz") {
		t.Errorf("log = %q", out)
	}
}

func TestParamsDecode(t *testing.T) {
	var target struct {
		ID   int    `param:"id"`
		Slug string `param:"slug"`
	}
	p := Params{"id": "42", "slug": "hello"}
	if err := p.Decode(&target); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if target.ID != 42 || target.Slug != "hello" {
		t.Errorf("decoded %+v", target)
	}

	var bad struct {
		ID int `param:"id"`
	}
	if err := (Params{"id": "x"}).Decode(&bad); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

type routeRecorder struct {
	ive.NopObserver
	outcomes []string
}

func (r *routeRecorder) RouteResolved(outcome, _ string) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestRouteObserver(t *testing.T) {
	rec := &routeRecorder{}
	rt := newRuntime(t, "/x", ive.WithObserver(rec))
	New(rt, "/", []Route{{Pattern: "/x", Handler: Func(userPage)}})
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "matched" {
		t.Errorf("outcomes = %v", rec.outcomes)
	}
}
