package moonbridge

import (
	"fmt"

	internal "github.com/jerbob92/wazero-moonbridge/internal"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

type wazeroBridge struct {
	internal.IBridge
}

func (wb *wazeroBridge) NewFunctionExporterForModule(guest wazero.CompiledModule) FunctionExporter {
	return &functionExporter{
		guest: guest,
	}
}

// FunctionExporter configures the functions in the "env" module a native
// core compiled to WebAssembly imports to reach the bridge.
type FunctionExporter interface {
	// ExportFunctions builds functions to export with a wazero.HostModuleBuilder
	// named "env".
	ExportFunctions(wazero.HostModuleBuilder) error
}

type functionExporter struct {
	guest wazero.CompiledModule
}

type unexportedFunctionError struct {
	name string
}

func (e unexportedFunctionError) Error() string {
	return fmt.Sprintf("the native core needs to export the \"%s\" function, the bridge uses it to allocate values and error messages in guest memory", e.name)
}

// ExportFunctions implements FunctionExporter.ExportFunctions
func (e functionExporter) ExportFunctions(b wazero.HostModuleBuilder) error {
	// First validate whether required functions are available.
	requiredFunctions := []string{"malloc", "free"}
	exportedFunctions := e.guest.ExportedFunctions()
	for i := range requiredFunctions {
		requiredFunction := requiredFunctions[i]
		if _, ok := exportedFunctions[requiredFunction]; !ok {
			return unexportedFunctionError{
				name: requiredFunction,
			}
		}
	}

	b.NewFunctionBuilder().
		WithName("moon_property_changed").
		WithParameterNames("obj", "prop", "oldValue", "newValue", "error").
		WithResultNames("code").
		WithGoModuleFunction(internal.PropertyChanged, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("moon_property_changed")

	b.NewFunctionBuilder().
		WithName("moon_get_property").
		WithParameterNames("obj", "name", "result", "error").
		WithResultNames("code").
		WithGoModuleFunction(internal.GetProperty, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("moon_get_property")

	b.NewFunctionBuilder().
		WithName("moon_set_property").
		WithParameterNames("obj", "name", "value", "error").
		WithResultNames("code").
		WithGoModuleFunction(internal.SetProperty, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("moon_set_property")

	b.NewFunctionBuilder().
		WithName("moon_add_event").
		WithParameterNames("obj", "name", "token", "error").
		WithResultNames("code").
		WithGoModuleFunction(internal.AddEvent, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("moon_add_event")

	b.NewFunctionBuilder().
		WithName("moon_remove_event").
		WithParameterNames("obj", "name", "token", "error").
		WithResultNames("code").
		WithGoModuleFunction(internal.RemoveEvent, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("moon_remove_event")

	b.NewFunctionBuilder().
		WithName("moon_retain_managed").
		WithParameterNames("token").
		WithGoModuleFunction(internal.RetainManaged, []api.ValueType{api.ValueTypeI32}, []api.ValueType{}).
		Export("moon_retain_managed")

	b.NewFunctionBuilder().
		WithName("moon_release_managed").
		WithParameterNames("token").
		WithGoModuleFunction(internal.ReleaseManaged, []api.ValueType{api.ValueTypeI32}, []api.ValueType{}).
		Export("moon_release_managed")

	return nil
}
