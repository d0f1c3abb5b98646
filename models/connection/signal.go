package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateGame
	CodeJoinGame

	// A third player tried to join
	CodeGameFull

	CodeOtherPlayerJoined
	CodePlaceShip
	CodeAttack

	// Transcribed utterance, optionally with a label from the client
	CodeVoiceCommand

	// Raw audio for the server side transcriber
	CodeAudioCommand

	// Sent to both players after any accepted command
	CodeCommandResult
	CodeStateSync
	CodeResetGame

	// The game went back to placement, either on request or because
	// the other player left
	CodeGameReset
	CodeEndGame
	CodeOtherPlayerDisconnected
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)
