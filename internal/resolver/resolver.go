package resolver

import (
	"errors"
	"log/slog"

	"github.com/nao1215/netctx/internal/model"
)

// Resolution is everything the dashboard needs to present one package's launch action.
type Resolution struct {
	PackageID        string             `json:"packageId"`
	Title            string             `json:"title,omitempty"`
	State            model.PackageState `json:"state"`
	Status           model.MainStatus   `json:"status"`
	UIKey            string             `json:"uiKey,omitempty"`
	HasUI            bool               `json:"hasUi"`
	HasAnonymityUI   bool               `json:"hasTorUi"`
	HasLocalUI       bool               `json:"hasLanUi"`
	Launchable       bool               `json:"launchable"`
	AnonymityAddress string             `json:"torAddress,omitempty"`
	LocalAddress     string             `json:"lanAddress,omitempty"`
	LaunchURL        string             `json:"launchUrl,omitempty"`
	Error            string             `json:"error,omitempty"`
	MissingTable     bool               `json:"missingTable,omitempty"`
}

// Resolver applies the launch policy for one session.
// It holds no package state; every call reads the record it is given.
type Resolver struct {
	session SessionClassifier
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-package debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New returns a Resolver bound to session.
func New(session SessionClassifier, opts ...Option) *Resolver {
	r := &Resolver{session: session}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve computes the Resolution of pkg.
// LaunchURL is only filled for launchable packages so that callers cannot
// accidentally present "http://" for a package without a UI.
func (r *Resolver) Resolve(pkg *model.PackageRecord) Resolution {
	res := Resolution{
		PackageID:      pkg.ID,
		Title:          pkg.Title,
		State:          pkg.State,
		Status:         pkg.Status,
		UIKey:          FindUserInterfaceKey(pkg.Interfaces),
		HasUI:          HasUI(pkg.Interfaces),
		HasAnonymityUI: HasAnonymityUI(pkg.Interfaces),
		HasLocalUI:     HasLocalUI(pkg.Interfaces),
		Launchable:     IsLaunchable(pkg.State, pkg.Status, pkg.Interfaces),
	}

	addrs, err := uiAddresses(pkg)
	if err != nil {
		if IsMissingTable(err) {
			res.MissingTable = true
			r.logger.Error("installed package has no address table", "package", pkg.ID)
		} else {
			r.logger.Warn("cannot resolve package addresses", "package", pkg.ID, "error", err)
		}
		res.Error = err.Error()
		res.Launchable = false
		return res
	}
	res.AnonymityAddress = addrs.Anonymity
	res.LocalAddress = addrs.Local

	if res.Launchable {
		url, err := BuildLaunchURL(pkg, r.session)
		if err != nil {
			// uiAddresses already succeeded, so this is unreachable in practice.
			res.Error = err.Error()
			res.Launchable = false
			return res
		}
		res.LaunchURL = url
	}

	r.logger.Debug("resolved package",
		"package", pkg.ID,
		"ui_key", res.UIKey,
		"launchable", res.Launchable,
		"launch_url", res.LaunchURL,
	)
	return res
}

// ResolveAll resolves every package, preserving order.
func (r *Resolver) ResolveAll(pkgs []model.PackageRecord) []Resolution {
	out := make([]Resolution, 0, len(pkgs))
	for i := range pkgs {
		out = append(out, r.Resolve(&pkgs[i]))
	}
	return out
}

// IsMissingTable reports whether err signals an installed package without an address table.
func IsMissingTable(err error) bool {
	return errors.Is(err, ErrMissingAddressTable)
}
