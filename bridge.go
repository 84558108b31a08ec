package moonbridge

import (
	"context"

	internal "github.com/jerbob92/wazero-moonbridge/internal"

	"github.com/tetratelabs/wazero"
)

type Bridge interface {
	internal.IBridge
	NewFunctionExporterForModule(guest wazero.CompiledModule) FunctionExporter
}

// CreateBridge connects a bridge to native. A nil config uses NewConfig().
func CreateBridge(ctx context.Context, native NativeCore, config Config) (Bridge, error) {
	b, err := internal.CreateBridge(ctx, native, config)
	if err != nil {
		return nil, err
	}
	return &wazeroBridge{IBridge: b}, nil
}

func GetBridgeFromContext(ctx context.Context) (internal.IBridge, error) {
	return internal.GetBridgeFromContext(ctx)
}

func MustGetBridgeFromContext(ctx context.Context) internal.IBridge {
	return internal.MustGetBridgeFromContext(ctx)
}
