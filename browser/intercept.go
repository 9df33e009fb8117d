package browser

import (
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceKinds maps config names to protocol resource types. Script is
// accepted but not in the default set: the engines exist for JS-rendered
// pages, blocking scripts defeats them.
var resourceKinds = map[string]proto.NetworkResourceType{
	"image":      proto.NetworkResourceTypeImage,
	"stylesheet": proto.NetworkResourceTypeStylesheet,
	"font":       proto.NetworkResourceTypeFont,
	"media":      proto.NetworkResourceTypeMedia,
	"script":     proto.NetworkResourceTypeScript,
}

// blockResources installs a request interceptor that drops the configured
// resource kinds before they hit the network, which keeps render waits short
// on asset-heavy result pages. Unknown kind names are ignored with a warning.
// Returns nil when nothing would be blocked; otherwise the running router,
// which the caller must Stop.
func blockResources(page *rod.Page, kinds []string) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(kinds))
	for _, name := range kinds {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "none" {
			// Sentinel for turning interception off from the environment.
			return nil
		}
		rt, ok := resourceKinds[name]
		if !ok {
			slog.Warn("unknown blocked resource kind ignored", "kind", name)
			continue
		}
		blocked[rt] = struct{}{}
	}
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()

	// Pattern "*" with an empty resource type intercepts everything; the
	// handler decides per request.
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if _, drop := blocked[h.Request.Type()]; drop {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop, so it gets its own goroutine.
	go router.Run()

	return router
}
