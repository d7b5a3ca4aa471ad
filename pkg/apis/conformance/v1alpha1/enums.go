package v1alpha1

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// IPFamily defines the address family a cluster is provisioned with.
type IPFamily string

var _ pflag.Value = (*IPFamily)(nil)

const (
	// IPFamilyIPv4 provisions an IPv4 cluster.
	IPFamilyIPv4 IPFamily = "ipv4"
	// IPFamilyIPv6 provisions an IPv6 cluster. CI environments without
	// IPv6 egress additionally need the CoreDNS post-configuration.
	IPFamilyIPv6 IPFamily = "ipv6"
)

// ValidValues returns all valid string values for IPFamily.
func (IPFamily) ValidValues() []string {
	return []string{string(IPFamilyIPv4), string(IPFamilyIPv6)}
}

// Set parses and assigns an IP family value, accepting any casing.
// It implements pflag.Value so the type can back a CLI flag directly.
func (f *IPFamily) Set(value string) error {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !slices.Contains(f.ValidValues(), normalized) {
		return fmt.Errorf("%w: %q (valid values: %s)",
			ErrInvalidIPFamily, value, strings.Join(f.ValidValues(), ", "))
	}

	*f = IPFamily(normalized)

	return nil
}

// String implements pflag.Value.
func (f *IPFamily) String() string { return string(*f) }

// Type implements pflag.Value.
func (*IPFamily) Type() string { return "ipFamily" }
