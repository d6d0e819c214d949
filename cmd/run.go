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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/netanelgilad/funee/bundler"
	"github.com/netanelgilad/funee/internal/logging"
	"github.com/netanelgilad/funee/internal/platform"
	"github.com/netanelgilad/funee/jsengine"
)

var runCmd = &cobra.Command{
	Use:   "run <entry-file> [expression]",
	Short: "Build a bundle and execute it immediately",
	Long: `Resolves the given expression (default "default()") in the scope of
entry-file, expands any macros to a fixed point, and runs the result inside
an embedded JavaScript engine wired to the configured host-function set.
With --watch, rebuilds and reruns on every change to a visited source file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, err := cmd.Flags().GetBool("watch")
		if err != nil {
			return err
		}
		if !watch {
			return runOnce(args)
		}
		return runWatch(args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("watch", false, "rebuild and rerun on every visited source file change")
}

// hostImplementations is the CLI's built-in set of op implementations. Only
// the default manifest's "log" op has a native implementation here — custom
// manifests loaded via --host-manifest name ops this binary does not itself
// implement, and running them fails with the same "no implementation
// registered" error jsengine.NewBundleRuntime raises for any other gap
// between the manifest and the runner embedding it.
func hostImplementations() map[string]jsengine.HostImplementation {
	return map[string]jsengine.HostImplementation{
		"op_log": func(args ...any) (any, error) {
			fmt.Println(args...)
			return nil, nil
		},
	}
}

func runOnce(args []string) error {
	result, err := buildFromArgs(args)
	if err != nil {
		return err
	}
	defer result.Close()

	cfg := resolvedConfig()
	hosts, err := loadHosts(cfg)
	if err != nil {
		return err
	}

	if err := bundler.Run(result, hosts, hostImplementations()); err != nil {
		return err
	}
	return nil
}

// runWatch runs the bundle once, then re-arms a watcher on every module
// visited by that build and reruns the whole pipeline on change, until the
// process is interrupted.
func runWatch(args []string) error {
	if err := runOnce(args); err != nil {
		logging.Error("%v", err)
	}

	watcher, err := platform.NewFSNotifyFileWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := armWatch(watcher, args); err != nil {
		return err
	}

	for {
		select {
		case event := <-watcher.Events():
			logging.Info("%s changed (%s), rebuilding", event.Name, event.Op)
			if err := runOnce(args); err != nil {
				logging.Error("%v", err)
			}
			if err := armWatch(watcher, args); err != nil {
				logging.Error("re-arming watcher: %v", err)
			}
		case werr := <-watcher.Errors():
			logging.Error("watcher error: %v", werr)
		}
	}
}

// armWatch runs a full build for args (graph, macro expansion and
// emission) to list its visited URIs, then watches each of their
// containing directories. The built script is thrown away; only the list
// of directories is used.
func armWatch(watcher *platform.FSNotifyFileWatcher, args []string) error {
	result, err := buildFromArgs(args)
	if err != nil {
		return err
	}
	defer result.Close()

	dirs := make(map[string]bool)
	for _, uri := range result.SourceURIs() {
		dirs[filepath.Dir(uri)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logging.Warning("could not watch %s: %v", dir, err)
		}
	}
	return nil
}
