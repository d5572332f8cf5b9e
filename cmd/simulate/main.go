// Package main runs a whole game offline with a fixed seed and prints
// every day to the terminal. Useful for eyeballing template balance and
// for reproducing reported simulations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/panembot/games-server/internal/engine"
	"github.com/panembot/games-server/internal/game"
	"github.com/panembot/games-server/internal/manager"
	"github.com/panembot/games-server/internal/platform/logger"
	"github.com/panembot/games-server/internal/templates"
)

func main() {
	players := flag.Int("players", 12, "number of participants")
	teamSize := flag.Int("team-size", 0, "team size (0 = free for all)")
	seed := flag.Int64("seed", 1, "random seed (same seed, same game)")
	noVictors := flag.Bool("allow-no-victors", false, "allow everyone to die")
	resurrection := flag.Float64("resurrection", 0, "per-day resurrection chance")
	flag.Parse()

	log := logger.NewLogger()

	store, err := templates.NewStore("", log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "template store:", err)
		os.Exit(1)
	}

	mgr := manager.New(engine.New(log, nil), store, nil, log)
	id, err := mgr.CreateGameWithSeed("simulation", *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i := 1; i <= *players; i++ {
		pid := fmt.Sprintf("P%03d", i)
		if err := mgr.IncludePlayer(id, pid, fmt.Sprintf("Tribute %d", i)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *teamSize > 0 {
		if err := mgr.FormTeams(id, *teamSize); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	must(mgr.SetOption(id, "allowNoVictors", *noVictors))
	must(mgr.SetOption(id, "resurrectionChance", *resurrection))

	for {
		dayNum, _, err := mgr.StartDay(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "day aborted:", err)
			os.Exit(1)
		}
		if dayNum == 0 {
			fmt.Println("=== The Bloodbath ===")
		} else {
			fmt.Printf("=== Day %d ===\n", dayNum)
		}

		for {
			ev, more, err := mgr.AdvanceReveal(id)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if ev != nil {
				fmt.Println("  " + ev.Text)
			}
			if !more {
				break
			}
		}

		raw, err := mgr.Snapshot(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		g := snapshotGame(raw)
		fmt.Printf("  -- %d still standing\n\n", g.NumAlive)

		if g.Ended {
			printOutcome(g)
			return
		}
	}
}

func printOutcome(g *game.Game) {
	switch {
	case g.Winner == nil:
		fmt.Println("The Games ended without a verdict.")
	case g.Winner.NoVictor:
		fmt.Println("Nobody survived the Games.")
	case g.Winner.TeamID != 0:
		for _, t := range g.Teams {
			if t.ID == g.Winner.TeamID {
				fmt.Printf("%s wins the Games!\n", t.Name)
			}
		}
	default:
		if p := g.Player(g.Winner.PlayerID); p != nil {
			fmt.Printf("%s wins the Games with %d kill(s)!\n", p.Name, p.Kills)
		}
	}

	fmt.Println("\nFinal ranking:")
	ranked := asPlayers(g)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	for _, p := range ranked {
		fmt.Printf("  #%-3d %s (%d kills)\n", p.Rank, p.Name, p.Kills)
	}
}

type gamePlayer struct {
	Name  string
	Rank  int
	Kills int
}

func asPlayers(g *game.Game) []*gamePlayer {
	out := make([]*gamePlayer, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, &gamePlayer{Name: p.Name, Rank: p.Rank, Kills: p.Kills})
	}
	return out
}

func snapshotGame(raw []byte) *game.Game {
	var g game.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		fmt.Fprintln(os.Stderr, "snapshot:", err)
		os.Exit(1)
	}
	return &g
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
