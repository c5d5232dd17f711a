package coordinator

import "context"

// HeartbeatRequest is the body POSTed to /heartbeat (spec §6).
type HeartbeatRequest struct {
	UserName  string                 `json:"user_name"`
	AgentID   string                 `json:"agent_id"`
	Longitude float64                `json:"longitude"`
	Latitude  float64                `json:"latitude"`
	Nodes     []string               `json:"nodes"`
	Facts     map[string]interface{} `json:"facts"`
}

// HeartbeatResponse is the coordinator's directive (spec §4.5): at most one
// of Run/Kill is populated.
type HeartbeatResponse struct {
	Run  string `json:"run,omitempty"`
	Kill string `json:"kill,omitempty"`
}

// Heartbeat POSTs req to /heartbeat and decodes the directive, if any. ok
// is false on any network/status failure (spec §4.6); the Supervisor
// treats that the same as "nothing to do" and continues its loop.
func (c *Client) Heartbeat(ctx context.Context, req HeartbeatRequest) (HeartbeatResponse, bool) {
	var resp HeartbeatResponse
	ok, _ := c.Request(ctx, "POST", "/heartbeat", req, &resp)
	return resp, ok
}

// GetJob fetches the graph description for jobID (spec §4.5: "GET
// /job/{id} -> description object").
func (c *Client) GetJob(ctx context.Context, jobID string) (map[string]interface{}, bool) {
	var result map[string]interface{}
	ok, _ := c.Request(ctx, "GET", "/job/"+jobID, nil, &result)
	return result, ok
}

// AcceptJob POSTs /job/{id}/accept.
func (c *Client) AcceptJob(ctx context.Context, jobID string) {
	c.Request(ctx, "POST", "/job/"+jobID+"/accept", nil, nil)
}

// RejectJob POSTs /job/{id}/reject.
func (c *Client) RejectJob(ctx context.Context, jobID string) {
	c.Request(ctx, "POST", "/job/"+jobID+"/reject", nil, nil)
}

// StopJob POSTs /job/{id}/stop.
func (c *Client) StopJob(ctx context.Context, jobID string) {
	c.Request(ctx, "POST", "/job/"+jobID+"/stop", nil, nil)
}
