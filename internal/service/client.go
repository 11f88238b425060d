package service

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/wlan-contention/model"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed wrapper over the contention service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Evaluation is the decoded Evaluate response.
type Evaluation struct {
	Result           model.PerformanceResult
	MaxThroughputBps float64
}

// Evaluate asks the server to evaluate cfg.
func (c *Client) Evaluate(ctx context.Context, cfg model.NetworkConfiguration, opts ...grpc.CallOption) (Evaluation, error) {
	req, err := NetworkConfigurationToStruct(cfg)
	if err != nil {
		return Evaluation{}, fmt.Errorf("encode request: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, evaluateMethod, req, resp, opts...); err != nil {
		return Evaluation{}, err
	}
	res, maxBps, err := ResultFromStruct(cfg, resp)
	if err != nil {
		return Evaluation{}, fmt.Errorf("decode response: %w", err)
	}
	return Evaluation{Result: res, MaxThroughputBps: maxBps}, nil
}

// GeneratePositions asks the server for a placement of count stations.
func (c *Client) GeneratePositions(ctx context.Context, count int, mapSize float64, opts ...grpc.CallOption) (model.StationPlacement, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		keyStationCount: count,
		keyMapSize:      mapSize,
	})
	if err != nil {
		return model.StationPlacement{}, fmt.Errorf("encode request: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, generatePositionsMethod, req, resp, opts...); err != nil {
		return model.StationPlacement{}, err
	}
	return PlacementFromStruct(resp)
}
