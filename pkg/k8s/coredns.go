package k8s

import (
	"context"
	"fmt"
	"strings"

	"github.com/coredns/corefile-migration/migration/corefile"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	coreDNSNamespace     = "kube-system"
	coreDNSConfigMapName = "coredns"
	corefileKey          = "Corefile"
	coreDNSPodSelector   = "k8s-app=kube-dns"

	kubernetesPluginName = "kubernetes"
	forwardPluginName    = "forward"
	loopPluginName       = "loop"

	clusterLocalZone  = "cluster.local"
	internalZoneToken = "internal"
)

// PatchCoreDNSForIPv6 rewrites the CoreDNS Corefile so the cluster resolves
// without relying on the host's upstream resolvers. IPv6 CI hosts typically
// have no usable IPv6 upstream, which makes the stock forward and upstream
// directives poison pod DNS. After updating the config map the CoreDNS pods
// are deleted so the deployment restarts them with the new Corefile.
func PatchCoreDNSForIPv6(ctx context.Context, client kubernetes.Interface) error {
	configMaps := client.CoreV1().ConfigMaps(coreDNSNamespace)

	configMap, err := configMaps.Get(ctx, coreDNSConfigMapName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get coredns config map: %w", err)
	}

	current, ok := configMap.Data[corefileKey]
	if !ok {
		return ErrCorefileMissing
	}

	patched, err := PatchCorefile(current)
	if err != nil {
		return fmt.Errorf("failed to patch corefile: %w", err)
	}

	configMap.Data[corefileKey] = patched

	_, err = configMaps.Update(ctx, configMap, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("failed to update coredns config map: %w", err)
	}

	err = restartCoreDNSPods(ctx, client)
	if err != nil {
		return err
	}

	return nil
}

// PatchCorefile transforms a CoreDNS Corefile document for offline IPv6
// operation:
//
//   - the kubernetes plugin serves an extra "internal" zone and loses its
//     "upstream" and "fallthrough" options,
//   - the "loop" detection plugin is removed,
//   - forwarding to the host's /etc/resolv.conf is removed.
//
// Directives that are already absent are skipped, so the transformation is
// idempotent across CoreDNS versions that ship different defaults.
func PatchCorefile(input string) (string, error) {
	parsed, err := corefile.New(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse corefile: %w", err)
	}

	for _, server := range parsed.Servers {
		patchServerBlock(server)
	}

	return parsed.ToString(), nil
}

func patchServerBlock(server *corefile.Server) {
	plugins := make([]*corefile.Plugin, 0, len(server.Plugins))

	for _, plugin := range server.Plugins {
		switch plugin.Name {
		case kubernetesPluginName:
			patchKubernetesPlugin(plugin)
		case loopPluginName:
			continue
		case forwardPluginName:
			if forwardsToHostResolvConf(plugin) {
				continue
			}
		}

		plugins = append(plugins, plugin)
	}

	server.Plugins = plugins
}

func patchKubernetesPlugin(plugin *corefile.Plugin) {
	if servesClusterZone(plugin.Args) && !hasZoneToken(plugin.Args, internalZoneToken) {
		plugin.Args = append(plugin.Args, internalZoneToken)
	}

	options := make([]*corefile.Option, 0, len(plugin.Options))

	for _, option := range plugin.Options {
		if option.Name == "upstream" || option.Name == "fallthrough" {
			continue
		}

		options = append(options, option)
	}

	plugin.Options = options
}

func forwardsToHostResolvConf(plugin *corefile.Plugin) bool {
	for _, arg := range plugin.Args {
		if arg == "/etc/resolv.conf" {
			return true
		}
	}

	return false
}

func servesClusterZone(args []string) bool {
	for _, arg := range args {
		if strings.HasSuffix(arg, clusterLocalZone) {
			return true
		}
	}

	return false
}

func hasZoneToken(args []string, token string) bool {
	for _, arg := range args {
		if arg == token {
			return true
		}
	}

	return false
}

func restartCoreDNSPods(ctx context.Context, client kubernetes.Interface) error {
	pods := client.CoreV1().Pods(coreDNSNamespace)

	err := pods.DeleteCollection(ctx, metav1.DeleteOptions{}, metav1.ListOptions{
		LabelSelector: coreDNSPodSelector,
	})
	if err != nil {
		return fmt.Errorf("failed to restart coredns pods: %w", err)
	}

	return nil
}
