package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to begin watching.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Sortd.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop watching.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Sortd.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Sortd.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rescan queues events for files already in the incoming directory.
func (c *Client) Rescan() (*RescanResponse, error) {
	var resp RescanResponse
	if err := c.client.Call("Sortd.Rescan", RescanRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SortFile sorts one file outside the watch session.
func (c *Client) SortFile(path string) (*SortFileResponse, error) {
	var resp SortFileResponse
	if err := c.client.Call("Sortd.SortFile", SortFileRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryList returns journal entries optionally filtered by statuses.
func (c *Client) HistoryList(limit int, statuses []string) (*HistoryListResponse, error) {
	var resp HistoryListResponse
	req := HistoryListRequest{Limit: limit, Statuses: statuses}
	if err := c.client.Call("Sortd.HistoryList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryClear removes journal entries, optionally only failed ones.
func (c *Client) HistoryClear(failedOnly bool) (*HistoryClearResponse, error) {
	var resp HistoryClearResponse
	req := HistoryClearRequest{FailedOnly: failedOnly}
	if err := c.client.Call("Sortd.HistoryClear", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryStats returns aggregate journal counts.
func (c *Client) HistoryStats() (*HistoryStatsResponse, error) {
	var resp HistoryStatsResponse
	if err := c.client.Call("Sortd.HistoryStats", HistoryStatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Sortd.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Sortd.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping checks whether a daemon is listening on the socket.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Sortd.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
