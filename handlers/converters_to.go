package handlers

import (
	"mygrid/domain"

	"github.com/google/uuid"
)

// toStatusResponse converts a distributor snapshot to the status payload. ready and nodes sit at the top
// level; value repeats readiness in the shape WebDriver clients poll.
func toStatusResponse(ready bool, nodes []domain.NodeSummary) StatusResponse {
	out := make([]NodeStatus, 0, len(nodes))
	for _, n := range nodes {
		sts := make([]StereotypeStatus, 0, len(n.Stereotypes))
		for _, st := range n.Stereotypes {
			caps := Capabilities(st.Capabilities)
			if caps == nil {
				caps = Capabilities{}
			}
			sts = append(sts, StereotypeStatus{Capabilities: caps, Slots: Slots{Max: st.Max, Current: st.Current}})
		}
		out = append(out, NodeStatus{
			Id:           n.ID.String(),
			Uri:          n.URI,
			Availability: NodeStatusAvailability(n.Availability),
			Stereotypes:  sts,
		})
	}
	message := "grid is not ready: no node has a free slot"
	if ready {
		message = "grid is ready"
	}
	return StatusResponse{Ready: ready, Nodes: out, Value: StatusValue{Ready: ready, Message: message}}
}

// toQueueResponse converts pending requests to the queue listing payload.
func toQueueResponse(reqs []domain.SessionRequest) QueueResponse {
	out := make([]QueuedRequest, 0, len(reqs))
	for _, r := range reqs {
		caps := make([]Capabilities, 0, len(r.Capabilities))
		for _, c := range r.Capabilities {
			caps = append(caps, Capabilities(c))
		}
		out = append(out, QueuedRequest{
			RequestId:    r.RequestID.String(),
			Capabilities: caps,
			Dialect:      string(r.CallerDialect),
			EnqueuedAt:   r.EnqueuedAt,
			Deadline:     r.Deadline,
		})
	}
	return QueueResponse{Value: out}
}

func toClearedResponse(n int) ClearedResponse {
	return ClearedResponse{Value: Cleared{Cleared: n}}
}

func toNodeRefResponse(id uuid.UUID) NodeRefResponse {
	return NodeRefResponse{Value: NodeRef{Id: id.String()}}
}
