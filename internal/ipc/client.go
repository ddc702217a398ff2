package ipc

import (
	"context"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"readaloud/internal/api"
	"readaloud/internal/services"
)

const dialTimeout = 2 * time.Second

// Client calls the provider over the socket.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "ipc", "dial", path, err)
	}
	return &Client{conn: conn, client: rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	return nil
}

// ProcessPage sends a processPage request. A returned error always means the
// exchange itself failed; provider failures come back as error responses.
func (c *Client) ProcessPage(ctx context.Context, req api.ProcessPageRequest) (api.ProcessPageResponse, error) {
	var resp api.ProcessPageResponse
	if req.Action == "" {
		req.Action = api.ActionProcessPage
	}
	if err := c.call(ctx, ServiceName+".ProcessPage", req, &resp); err != nil {
		return api.ProcessPageResponse{}, err
	}
	return resp, nil
}

// Status retrieves daemon status.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var resp api.DaemonStatus
	if err := c.call(ctx, ServiceName+".Status", StatusRequest{}, &resp); err != nil {
		return api.DaemonStatus{}, err
	}
	return resp, nil
}

func (c *Client) call(ctx context.Context, method string, args, reply any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	call := c.client.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		if call.Error != nil {
			return services.Wrap(services.ErrTransport, "ipc", method, "", call.Error)
		}
		return nil
	case <-ctx.Done():
		return services.Wrap(services.ErrTransport, "ipc", method, "canceled", ctx.Err())
	}
}
