// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - capture.*
//   - turn.*
//   - conversation.*
//   - speech.*
//   - playback.*
//
// capture events
//
//   - CaptureInterimTranscript (capture.interim_transcript): mutable interim
//     transcript snapshot for the utterance in progress.
//   - CaptureFailed (capture.failed): the transcription source reported a
//     typed error. Permission-denied failures are terminal for the session
//     until the user grants access again.
//
// turn events
//
//   - TurnFinalized (turn.finalized): the endpoint detector committed one
//     user utterance, either after the silence window elapsed or on manual
//     stop.
//
// conversation events
//
//   - MessageAppended (conversation.message_appended): a user or agent
//     message was appended to the conversation log.
//
// speech events
//
//   - SpeechFallbackEngaged (speech.fallback_engaged): the remote synthesis
//     provider failed or was not configured and the local provider took
//     over. Diagnostic, never fatal.
//   - SpeechGenerationFailed (speech.generation_failed): remote synthesis
//     failed; carries the provider status for diagnostics.
//
// playback events
//
//   - PlaybackStateChanged (playback.state_changed): the playback manager
//     moved between Idle, Loading, Playing, Ended, Error, Stopped and
//     NeedsUserGesture.
package events
