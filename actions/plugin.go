package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/relloyd/stagecopy/constants"
)

// RunnableFuncs is the function pair the host calls to run a macro.
type RunnableFuncs struct {
	Run               func(ctx context.Context, progress ProgressFunc) (string, error)
	GetProgressTarget func() *ProgressTarget
	RunId             string
}

// RunnableConstructor builds the RunnableFuncs for one invocation.
type RunnableConstructor func(projectKey string, cfg map[string]interface{}, pluginCfg map[string]interface{}, deps PluginDependencies) (RunnableFuncs, error)

// ParamResolver computes the choices of a dynamic parameter.
type ParamResolver func(ctx context.Context, payload map[string]interface{}, cfg map[string]interface{}, pluginCfg map[string]interface{}, deps PluginDependencies) (ChoicesResponse, error)

// Runnables is a register of all macros provided by the plugin.
var Runnables = map[string]RunnableConstructor{
	constants.RunnableIdExportToStages: func(projectKey string, cfg map[string]interface{}, pluginCfg map[string]interface{}, deps PluginDependencies) (RunnableFuncs, error) {
		r, err := NewExportRunnable(projectKey, cfg, pluginCfg, deps)
		if err != nil {
			return RunnableFuncs{}, err
		}
		return RunnableFuncs{Run: r.Run, GetProgressTarget: r.GetProgressTarget, RunId: r.RunId}, nil
	},
}

// ParamResolvers is a register of all dynamic parameter callbacks provided by the plugin.
var ParamResolvers = map[string]ParamResolver{
	constants.ParamResolverIdDynamicParams: ResolveDynamicParams,
}

// GetRunnable returns the constructor registered under id.
func GetRunnable(id string) (RunnableConstructor, error) {
	r, ok := Runnables[id]
	if !ok {
		return nil, fmt.Errorf("unsupported runnable %q: use one of %v", id, sortedKeys(Runnables))
	}
	return r, nil
}

// GetParamResolver returns the resolver registered under id.
func GetParamResolver(id string) (ParamResolver, error) {
	r, ok := ParamResolvers[id]
	if !ok {
		return nil, fmt.Errorf("unsupported parameter resolver %q", id)
	}
	return r, nil
}

func sortedKeys(m map[string]RunnableConstructor) []string {
	retval := make([]string, 0, len(m))
	for k := range m {
		retval = append(retval, k)
	}
	sort.Strings(retval)
	return retval
}
