// Package camundatest provides an in-memory Zeebe gateway so job handlers can
// be exercised end to end without a broker.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Gateway records job commands. Only the job RPCs are implemented; any other
// call panics on the nil embedded client.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	Completed []*pb.CompleteJobRequest
	Failed    []*pb.FailJobRequest
	Thrown    []*pb.ThrowErrorRequest
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Completed = append(g.Completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Failed = append(g.Failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Thrown = append(g.Thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// CompletedVariables decodes the variables of the i-th completed job.
func (g *Gateway) CompletedVariables(i int) map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i >= len(g.Completed) {
		return nil
	}
	out := map[string]interface{}{}
	_ = json.Unmarshal([]byte(g.Completed[i].Variables), &out)
	return out
}

func never(context.Context, error) bool { return false }

// JobClient implements worker.JobClient on top of a Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, never)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, never)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, never)
}

// NewJob builds an activated job whose variables are vars encoded as JSON.
// vars may also be a raw JSON string.
func NewJob(taskType string, key int64, vars interface{}) entities.Job {
	var variables string
	switch v := vars.(type) {
	case string:
		variables = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		variables = string(raw)
	}

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		Retries:            3,
		Variables:          variables,
	}}
}
