package rpc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient 封装推理服务的 gRPC 健康检查
type HealthClient struct {
	conn *grpc.ClientConn
	cli  healthpb.HealthClient
	// Service 为空表示检查整个服务
	Service string
}

// NewHealthClient 创建健康检查客户端，连接是惰性建立的
func NewHealthClient(addr string) (*HealthClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc client %s: %w", addr, err)
	}
	return &HealthClient{conn: conn, cli: healthpb.NewHealthClient(conn)}, nil
}

// Check 服务状态不是 SERVING 时返回错误
func (h *HealthClient) Check(ctx context.Context) error {
	resp, err := h.cli.Check(ctx, &healthpb.HealthCheckRequest{Service: h.Service})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		slog.WarnContext(ctx, "HealthCheck", "status", resp.GetStatus().String())
		return fmt.Errorf("health check: status %s", resp.GetStatus())
	}
	return nil
}

// Close 关闭连接
func (h *HealthClient) Close() error {
	return h.conn.Close()
}
