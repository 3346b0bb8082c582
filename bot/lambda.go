package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
)

// AckTimeout bounds each attempt to deliver a reply on a reply channel.
const AckTimeout = 3 * time.Second

type invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient invokes a Lambda-hosted occupant synchronously.
type LambdaClient struct {
	client   invoker
	function string
	timeout  time.Duration
}

// NewLambdaClient uses the default AWS credential chain.
func NewLambdaClient(ctx context.Context, function string, timeout time.Duration) (*LambdaClient, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &LambdaClient{client: lambda.NewFromConfig(awscfg), function: function, timeout: timeout}, nil
}

func (c *LambdaClient) invoke(ctx context.Context, e Envelope) (string, error) {
	payload, err := json.Marshal(LambdaEvent{GameID: e.gameID(), Request: e})
	if err != nil {
		return "", err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out, err := c.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(c.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("invoking %s: %w", c.function, err)
	}
	if out.FunctionError != nil {
		return "", fmt.Errorf("%w: %s: %s: %s", agent.ErrAgentResponse, c.function,
			aws.ToString(out.FunctionError), string(out.Payload))
	}
	return decodeReply(out.Payload)
}

func (c *LambdaClient) GiveClue(ctx context.Context, req *agent.ClueRequest) (string, error) {
	return c.invoke(ctx, clueEnvelope(req))
}

func (c *LambdaClient) Guess(ctx context.Context, req *agent.GuessRequest) (string, error) {
	return c.invoke(ctx, guessEnvelope(req))
}

// HandleLambdaEvent answers evt with occ. When the event names a reply
// channel the reply is also sent there, retrying until it is acknowledged.
func HandleLambdaEvent(ctx context.Context, occ agent.Occupant, nc requester, evt LambdaEvent) Reply {
	logger := log.With().Str("game-id", evt.GameID).Logger()
	reply := Answer(ctx, occ, evt.Request)
	if reply.Error != "" {
		logger.Warn().Str("error", reply.Error).Msg("occupant-failed")
	}
	if evt.ReplyChannel == "" || nc == nil {
		return reply
	}
	data, err := json.Marshal(reply)
	if err != nil {
		logger.Err(err).Msg("encode-reply-failed")
		return reply
	}
	logger.Info().Str("channel", evt.ReplyChannel).Msg("reply-sending-via-nats")
	err = retry.Do(
		func() error {
			// only the acknowledgement matters
			actx, cancel := context.WithTimeout(ctx, AckTimeout)
			defer cancel()
			_, err := nc.RequestWithContext(actx, evt.ReplyChannel, data)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Err(err).Uint("n", n).Msg("did-not-receive-ack-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		logger.Err(err).Msg("reply-send-failed")
	}
	return reply
}
