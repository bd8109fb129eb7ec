package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ulissesgoncalvess/ferveu/ferveuservice"
)

func main() {
	if err := ferveuservice.Run(); err != nil {
		log.Error().Err(err).Msg("ferveu-service exited with error")
		os.Exit(1)
	}
}
