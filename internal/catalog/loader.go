package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/netctx/internal/model"
)

// document is the top level of a catalog file.
type document struct {
	Packages []packageNode `yaml:"packages"`
}

// packageNode is one package entry. Interfaces and addresses are kept as raw
// nodes so that mapping order survives decoding.
type packageNode struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Version    string    `yaml:"version"`
	State      string    `yaml:"state"`
	Status     string    `yaml:"status"`
	Interfaces yaml.Node `yaml:"interfaces"`
	Addresses  yaml.Node `yaml:"interface-addresses"`
}

type interfaceNode struct {
	Name      string   `yaml:"name"`
	UI        bool     `yaml:"ui"`
	TorConfig presence `yaml:"tor-config"`
	LanConfig presence `yaml:"lan-config"`
}

type addressNode struct {
	TorAddress string `yaml:"tor-address"`
	LanAddress string `yaml:"lan-address"`
}

// presence is true when a configuration block exists. Manifests carry a
// mapping there; a plain boolean is accepted as shorthand.
type presence bool

// UnmarshalYAML treats null and false as absent and anything else as present.
func (p *presence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		switch value.Tag {
		case "!!null":
			*p = false
			return nil
		case "!!bool":
			var b bool
			if err := value.Decode(&b); err != nil {
				return err
			}
			*p = presence(b)
			return nil
		}
	}
	*p = true
	return nil
}

// LoadFile reads and decodes the catalog at path.
func LoadFile(path string) ([]model.PackageRecord, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided catalog path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	pkgs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pkgs, nil
}

// Decode reads a YAML catalog from r and returns the packages in document order.
// An empty document yields no packages.
func Decode(r io.Reader) ([]model.PackageRecord, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	pkgs := make([]model.PackageRecord, 0, len(doc.Packages))
	seen := make(map[string]bool, len(doc.Packages))
	for i := range doc.Packages {
		pkg, err := doc.Packages[i].record()
		if err != nil {
			return nil, err
		}
		if seen[pkg.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePackage, pkg.ID)
		}
		seen[pkg.ID] = true
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// record converts the node into a validated PackageRecord.
func (n *packageNode) record() (model.PackageRecord, error) {
	if n.ID == "" {
		return model.PackageRecord{}, ErrEmptyPackageID
	}
	wrap := func(err error) error {
		return fmt.Errorf("package %s: %w", n.ID, err)
	}

	state, err := model.ParsePackageState(n.State)
	if err != nil {
		return model.PackageRecord{}, wrap(err)
	}
	status, err := model.ParseMainStatus(n.Status)
	if err != nil {
		return model.PackageRecord{}, wrap(err)
	}
	interfaces, err := decodeInterfaces(&n.Interfaces)
	if err != nil {
		return model.PackageRecord{}, wrap(err)
	}
	table, err := decodeAddresses(&n.Addresses)
	if err != nil {
		return model.PackageRecord{}, wrap(err)
	}

	pkg := model.PackageRecord{
		ID:         n.ID,
		Title:      n.Title,
		Version:    n.Version,
		State:      state,
		Status:     status,
		Interfaces: interfaces,
		Installed:  table,
	}
	if err := pkg.Validate(); err != nil {
		return model.PackageRecord{}, err
	}
	return pkg, nil
}

// isAbsent reports whether a section was omitted or left empty.
func isAbsent(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// mappingPairs returns the key/value nodes of a mapping in document order.
func mappingPairs(node *yaml.Node, section string) ([][2]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: %s must be a mapping", ErrInvalidDocument, node.Line, section)
	}
	pairs := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
	}
	return pairs, nil
}

func decodeInterfaces(node *yaml.Node) ([]model.InterfaceDefinition, error) {
	if isAbsent(node) {
		return nil, nil
	}
	pairs, err := mappingPairs(node, "interfaces")
	if err != nil {
		return nil, err
	}

	out := make([]model.InterfaceDefinition, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		key := pair[0].Value
		if seen[key] {
			return nil, fmt.Errorf("%w: line %d: %q", ErrDuplicateInterface, pair[0].Line, key)
		}
		seen[key] = true

		var def interfaceNode
		if !isAbsent(pair[1]) {
			if err := pair[1].Decode(&def); err != nil {
				return nil, fmt.Errorf("interface %s: %w", key, err)
			}
		}
		out = append(out, model.InterfaceDefinition{
			Key:               key,
			Name:              def.Name,
			UI:                def.UI,
			SupportsAnonymity: bool(def.TorConfig),
			SupportsLocal:     bool(def.LanConfig),
		})
	}
	return out, nil
}

// decodeAddresses returns nil when the section is absent, so that an installed
// package without addresses can be told apart from one with an empty table.
func decodeAddresses(node *yaml.Node) (*model.InstalledAddressTable, error) {
	if isAbsent(node) {
		return nil, nil
	}
	pairs, err := mappingPairs(node, "interface-addresses")
	if err != nil {
		return nil, err
	}

	entries := make([]model.AddressEntry, 0, len(pairs))
	for _, pair := range pairs {
		var addrs addressNode
		if !isAbsent(pair[1]) {
			if err := pair[1].Decode(&addrs); err != nil {
				return nil, fmt.Errorf("addresses of %s: %w", pair[0].Value, err)
			}
		}
		entries = append(entries, model.AddressEntry{
			Key: pair[0].Value,
			Addresses: model.InterfaceAddresses{
				Anonymity: addrs.TorAddress,
				Local:     addrs.LanAddress,
			},
		})
	}

	table, err := model.NewInstalledAddressTable(entries...)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateInterfaceKey) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateInterface, err)
		}
		return nil, err
	}
	return table, nil
}
