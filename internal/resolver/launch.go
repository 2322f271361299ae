package resolver

import "github.com/nao1215/netctx/internal/model"

const (
	localScheme     = "https://"
	anonymityScheme = "http://"
)

// BuildLaunchURL returns the URL that opens the package UI in the current session.
// The address is used verbatim; only the scheme is prepended.
func BuildLaunchURL(pkg *model.PackageRecord, session SessionClassifier) (string, error) {
	if !session.IsAnonymitySession() && HasLocalUI(pkg.Interfaces) {
		addr, err := ResolveLocalAddress(pkg)
		if err != nil {
			return "", err
		}
		return localScheme + addr, nil
	}

	addr, err := ResolveAnonymityAddress(pkg)
	if err != nil {
		return "", err
	}
	return anonymityScheme + addr, nil
}
