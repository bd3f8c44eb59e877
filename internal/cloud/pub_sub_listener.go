// Copyright 2025 Reel Archive Works, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with Google Cloud services.
// This file defines a generic, reusable Pub/Sub message listener. Receiving
// from a subscription is abstracted here; the actual message processing is
// delegated to a workflow Command attached to the listener.
//
// Logic Flow:
//  1. A PubSubListener is created with a client and a subscription ID.
//  2. A Command (the processing workflow) is attached to the listener.
//  3. `Listen` starts a background goroutine that waits for messages.
//  4. Each arriving message is handed to the Command inside a fresh chain
//     context, under its own trace span.
//  5. The message is acknowledged only when the Command completes without
//     errors, giving at-least-once processing.
//
// Structs:
//   - PubSubListener: Manages the connection to a Pub/Sub subscription and
//     holds the command that processes incoming messages.
//
// Functions:
//   - NewPubSubListener: Constructor for a new PubSubListener.
//   - SetCommand: Attaches a processing command to the listener.
//   - Listen: Starts the background receive loop.
package cloud

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// PubSubListener connects one Pub/Sub subscription to one processing
// command. Listeners have a life-cycle independent of individual API
// requests, so they live in the cloud package rather than in a workflow.
type PubSubListener struct {
	client       *pubsub.Client       // The client for interacting with the Pub/Sub service.
	subscription *pubsub.Subscription // The subscription this listener pulls messages from.
	command      cor.Command          // The command executed for each received message.
}

// NewPubSubListener initializes a listener with a Pub/Sub client, the ID of
// the subscription to listen to, and the command that will process the
// messages. The command may be nil at construction and attached later with
// SetCommand.
//
// Inputs:
//   - pubsubClient: An authenticated *pubsub.Client.
//   - subscriptionID: The string ID of the subscription.
//   - command: The cor.Command to run on each message, or nil.
//
// Outputs:
//   - *PubSubListener: The configured listener.
//   - error: Reserved for future construction failures; currently always nil.
func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	command cor.Command,
) (cmd *PubSubListener, err error) {
	sub := pubsubClient.Subscription(subscriptionID)

	cmd = &PubSubListener{
		client:       pubsubClient,
		subscription: sub,
		command:      command,
	}
	return cmd, nil
}

// SetCommand attaches a command to the listener. Listeners are created
// before the workflows are assembled, so the command arrives later. A
// command that is already set is never overwritten.
//
// Inputs:
//   - command: The cor.Command to execute when a message is received.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// Listen starts the asynchronous message receiving process in its own
// goroutine so the server keeps handling API requests while messages are
// processed in the background.
//
// Inputs:
//   - ctx: Controls the lifecycle of the listener. Canceling it stops the
//     receive loop.
func (m *PubSubListener) Listen(ctx context.Context) {
	log.Printf("listening: %s", m.subscription)

	go func() {
		tracer := otel.Tracer("message-listener")

		// Receive blocks and invokes the callback once per message.
		err := m.subscription.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
			spanCtx, span := tracer.Start(ctx, "receive-message")
			span.SetName("receive-message")
			span.SetAttributes(attribute.String("msg", string(msg.Data)))
			log.Println("received message")

			// Each message gets a fresh chain context with the raw payload
			// as the initial input.
			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(spanCtx)
			chainCtx.Add(cor.CtxIn, string(msg.Data))

			m.command.Execute(chainCtx)

			if !chainCtx.HasErrors() {
				span.SetStatus(codes.Ok, "success")
				msg.Ack()
			} else {
				span.SetStatus(codes.Error, "failed")
				for _, e := range chainCtx.GetErrors() {
					log.Printf("error executing chain: %v", e)
				}
				// No Ack and no Nack: the message redelivers after its
				// acknowledgement deadline per the subscription's retry
				// policy.
			}

			span.End()
		})

		if err != nil {
			log.Printf("error receiving data: %v", err)
		}
	}()
}
