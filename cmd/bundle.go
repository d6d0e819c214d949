/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netanelgilad/funee/bundler"
	"github.com/netanelgilad/funee/cmd/config"
	"github.com/netanelgilad/funee/diag"
	"github.com/netanelgilad/funee/graph"
	"github.com/netanelgilad/funee/host"
	"github.com/netanelgilad/funee/internal/logging"
	"github.com/netanelgilad/funee/jsmodule"
	"github.com/netanelgilad/funee/loader"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle <entry-file> [expression]",
	Short: "Build a bundle and print the emitted script",
	Long: `Resolves the given expression (default "default()") in the scope of
entry-file, expands any macros to a fixed point, and prints the resulting
self-contained script with an inline source map to stdout, or to --out if
given. Does not execute it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := buildFromArgs(args)
		if err != nil {
			return err
		}
		defer result.Close()

		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		if out == "" {
			fmt.Println(result.Script)
			return nil
		}
		if err := os.WriteFile(out, []byte(result.Script), 0o644); err != nil {
			return fmt.Errorf("writing bundle to %s: %w", out, err)
		}
		logging.Success("Wrote bundle to %s", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().String("out", "", "write the bundle to this path instead of stdout")
}

func resolvedConfig() *config.FuneeConfig {
	cfg := config.Default()
	if v := viper.GetString("hostManifestPath"); v != "" {
		cfg.HostManifestPath = v
	}
	if v := viper.GetInt("maxMacroIterations"); v != 0 {
		cfg.MaxMacroIterations = v
	}
	if v := viper.GetInt("maxMacroCallsPerInvocation"); v != 0 {
		cfg.MaxMacroCallsPerInvocation = v
	}
	cfg.Verbose = viper.GetBool("verbose")
	cfg.Quiet = viper.GetBool("quiet")
	return cfg
}

// entryAndExpression resolves the positional <entry-file> [expression]
// arguments of bundle/run into an absolute scope URI and the seed
// expression to evaluate in it, defaulting the expression to a call of the
// module's default export.
func entryAndExpression(args []string) (scopeURI, expression string, err error) {
	entry, err := filepath.Abs(args[0])
	if err != nil {
		return "", "", fmt.Errorf("resolving entry file %q: %w", args[0], err)
	}
	expression = "default()"
	if len(args) == 2 {
		expression = args[1]
	}
	return entry, expression, nil
}

// loadHosts resolves the host-function set for a build: the manifest at
// cfg.HostManifestPath if given, otherwise the built-in default.
func loadHosts(cfg *config.FuneeConfig) (host.Set, error) {
	if cfg.HostManifestPath == "" {
		return host.Default(), nil
	}
	hosts, err := host.LoadManifest(cfg.HostManifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading host manifest: %w", err)
	}
	return hosts, nil
}

// buildFromArgs runs the whole pipeline for a bundle/run invocation's
// positional arguments. An unresolved-reference failure gets a diag "did
// you mean" suffix before it is returned; other failures are returned as-is.
func buildFromArgs(args []string) (*bundler.Result, error) {
	scopeURI, expression, err := entryAndExpression(args)
	if err != nil {
		return nil, err
	}

	cfg := resolvedConfig()
	hosts, err := loadHosts(cfg)
	if err != nil {
		return nil, err
	}

	fl := loader.NewLocal()
	logging.Debug("Bundling %s with expression %q", scopeURI, expression)

	result, err := bundler.Bundle(bundler.Request{
		SeedExpression:          expression,
		ScopeURI:                scopeURI,
		Hosts:                   hosts,
		Loader:                  fl,
		MaxMacroIterations:      cfg.MaxMacroIterations,
		MaxMacroCallsPerRuntime: cfg.MaxMacroCallsPerInvocation,
	})
	if err != nil {
		return nil, renderBuildError(fl, err)
	}
	return result, nil
}

// renderBuildError enriches an unresolved-reference failure with a "did you
// mean" suggestion against the other names declared in the failing module
// before returning it as the command's final error. Other failure kinds are
// returned as-is: the core's plain error taxonomy (§7) already names the
// failing canonical identifier or URI.
func renderBuildError(fl loader.FileLoader, err error) error {
	var uerr *graph.UnresolvedReferenceError
	if !asUnresolvedReferenceError(err, &uerr) {
		return err
	}

	src, rerr := fl.Read(uerr.ID.URI)
	if rerr != nil {
		return err
	}
	mod, tree, perr := jsmodule.Parse(uerr.ID.URI, src)
	if perr != nil {
		return err
	}
	defer tree.Close()

	candidates := make([]string, 0, len(mod.Declarations))
	for name := range mod.Declarations {
		candidates = append(candidates, name)
	}
	return fmt.Errorf("%s%s", err.Error(), diag.DidYouMean(uerr.ID.Name, candidates))
}

func asUnresolvedReferenceError(err error, target **graph.UnresolvedReferenceError) bool {
	for err != nil {
		if uerr, ok := err.(*graph.UnresolvedReferenceError); ok {
			*target = uerr
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
