package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/game/battleship"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/boggle"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/chimptest"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/connectfour"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/hangman"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/lightsout"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/memory"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/numbermemory"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/numberslider"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/reaction"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/rps"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/tictactoe"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/twenty48"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/typerace"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/verbalmemory"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/wordle"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	KindTicTacToe    = "tictactoe"
	KindConnectFour  = "connectfour"
	KindRPS          = "rps"
	KindBattleship   = "battleship"
	KindTwenty48     = "2048"
	KindHangman      = "hangman"
	KindWordle       = "wordle"
	KindTyperace     = "typerace"
	KindReaction     = "reaction"
	KindVerbalMemory = "verbalmemory"
	KindNumberMemory = "numbermemory"
	KindChimpTest    = "chimptest"
	KindMemory       = "memory"
	KindBoggle       = "boggle"
	KindNumberSlider = "numberslider"
	KindLightsOut    = "lightsout"
)

// Default registers every built-in game.
func Default() *Registry {
	return NewRegistry(
		Definition{
			Kind: KindTicTacToe, MinPlayers: 2, MaxPlayers: 2,
			VersusBot: true, BotMoves: tictactoe.BotMoves(),
			Policy: session.PolicyReject,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				return session.NewRunner[int](tictactoe.New(params.Players[0], params.Players[1])), nil
			},
		},
		Definition{
			Kind: KindConnectFour, MinPlayers: 2, MaxPlayers: 2,
			VersusBot: true, BotMoves: connectfour.BotMoves(),
			Policy: session.PolicyReject,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				return session.NewRunner[int](connectfour.New(params.Players[0], params.Players[1])), nil
			},
		},
		Definition{
			Kind: KindRPS, MinPlayers: 2, MaxPlayers: 2,
			VersusBot: true, BotMoves: rps.BotMoves(),
			Policy: session.PolicyReject,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				return session.NewRunner[rps.Choice](rps.New(params.Players[0], params.Players[1])), nil
			},
		},
		Definition{
			Kind: KindBattleship, MinPlayers: 2, MaxPlayers: 2,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAll,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game := battleship.New(params.Players[0], params.Players[1], params.Rand)

				return battleship.NewRunner(game, params.Config.Battleship.RandomPlacement), nil
			},
		},
		Definition{
			Kind: KindTwenty48, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := twenty48.New(params.Players[0], params.Config.Twenty48.WinAt, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[twenty48.Direction](game), nil
			},
		},
		Definition{
			Kind: KindHangman, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				word, err := words.Pick(params.Rand, params.Words.Hangman)
				if err != nil {
					return nil, fmt.Errorf("hangman word: %w", err)
				}

				game, err := hangman.New(params.Players[0], word, params.Config.Hangman.Lives)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[hangman.Guess](game), nil
			},
		},
		Definition{
			Kind: KindWordle, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: StopWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				target, err := words.Pick(params.Rand, params.Words.Wordle)
				if err != nil {
					return nil, fmt.Errorf("wordle target: %w", err)
				}

				game, err := wordle.New(params.Players[0], target, params.Config.Wordle.Attempts, params.Words.WordleSet())
				if err != nil {
					return nil, err
				}

				return session.NewRunner[string](game), nil
			},
		},
		Definition{
			Kind: KindTyperace, MinPlayers: 1, MaxPlayers: 1,
			Policy: session.PolicyIgnore,
			Timed:  true,
			New: func(ctx context.Context, params Params) (session.Runner, error) {
				source := params.Text
				if source == nil {
					source = typerace.WordSource{Words: params.Words.Typerace, Rand: params.Rand}
				}

				conf := params.Config.Typerace

				game, err := typerace.FromSource(ctx, source, conf.Winners, conf.Threshold)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[typerace.Attempt](game), nil
			},
		},
		Definition{
			Kind: KindReaction, MinPlayers: 1, MaxPlayers: 1,
			Policy: session.PolicyIgnore,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				conf := params.Config.Reaction

				return session.NewRunner[time.Time](reaction.New(params.Rand, conf.MinPause, conf.MaxPause)), nil
			},
		},
		Definition{
			Kind: KindVerbalMemory, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := verbalmemory.New(params.Players[0], params.Words.Verbal, params.Config.VerbalMemory.Lives, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[verbalmemory.Answer](game), nil
			},
		},
		Definition{
			Kind: KindNumberMemory, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				return session.NewRunner[string](numbermemory.New(params.Players[0], params.Rand)), nil
			},
		},
		Definition{
			Kind: KindChimpTest, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := chimptest.New(params.Players[0], chimptest.DefaultCount, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[int](game), nil
			},
		},
		Definition{
			Kind: KindMemory, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := memory.New(params.Players[0], nil, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[int](game), nil
			},
		},
		Definition{
			Kind: KindBoggle, MinPlayers: 1, MaxPlayers: 1,
			Policy: session.PolicyReject,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				return session.NewRunner[boggle.Guess](boggle.New(params.Players[0], params.Words.DictionarySet(), params.Rand)), nil
			},
		},
		Definition{
			Kind: KindNumberSlider, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := numberslider.New(params.Players[0], 0, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[int](game), nil
			},
		},
		Definition{
			Kind: KindLightsOut, MinPlayers: 1, MaxPlayers: 1,
			Policy:     session.PolicyReject,
			CancelWord: CancelWord, CancelQuorum: session.QuorumAny,
			New: func(_ context.Context, params Params) (session.Runner, error) {
				game, err := lightsout.New(params.Players[0], 0, params.Rand)
				if err != nil {
					return nil, err
				}

				return session.NewRunner[int](game), nil
			},
		},
	)
}
