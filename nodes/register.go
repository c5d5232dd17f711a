package nodes

import "github.com/fossabot/seot-agent/registry"

// RegisterAll registers every builtin node type against reg. Called once
// from cmd/seot-agent and cmd/seot-debugtool before any job description is
// built (spec §4.3:
// population happens before the Registry is treated as immutable).
func RegisterAll(reg *registry.Registry) {
	reg.Register("ConstSource", NewConstSource, nil)
	reg.Register("DebugSink", NewDebugSink, nil)
	reg.Register("NullSink", NewNullSink, nil)
	reg.Register("IdentityTransformer", NewIdentityTransformer, nil)
	reg.Register("LambdaTransformer", NewLambdaTransformer, nil)
	reg.Register("LoadBalancer", NewLoadBalancerNode, nil)
	reg.Register("TCPSource", NewTCPSource, nil)
	reg.Register("TCPSink", NewTCPSink, nil)
	reg.Register("SQLSink", NewSQLSink, nil)
	reg.Register("FileSink", NewFileSink, nil)
}
