/*
Package ports defines the driven ports (interfaces) of the daisy engine.

These interfaces decouple the execution core from external implementations:

  - ChatCompleter / ImageGenerator / VideoGenerator: the three external AI
    capability endpoints the engine dispatches to.
  - CredentialProvider: the side-channel supplying bearer secrets.
  - EventSink: the pub/sub surface the engine reports through.
*/
package ports
