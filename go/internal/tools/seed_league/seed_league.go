package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hardwoodgm/hardwood/go/internal/dbconfig"
)

// Team mirrors the JSON snapshot structure
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Code       string `json:"code"`
	Conference string `json:"conference"`
	Players    []struct {
		ID            string `json:"id"`
		FullName      string `json:"full_name"`
		Position      string `json:"position"`
		Age           int    `json:"age"`
		Overall       int    `json:"overall"`
		Inside        int    `json:"inside"`
		Outside       int    `json:"outside"`
		Playmake      int    `json:"playmake"`
		Defense       int    `json:"defense"`
		Rebound       int    `json:"rebound"`
		Stamina       int    `json:"stamina"`
		Potential     int    `json:"potential"`
		ContractYears int    `json:"contract_years"`
		Salary        int64  `json:"salary"`
	} `json:"players"`
}

func main() {
	// 1) Load the JSON snapshot
	path := "go/internal/assets/league.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert teams and rosters
	var (
		teamsInserted   int
		playersInserted int
		skipped         int
		errs            int
	)

	for _, t := range teams {
		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO teams (id, name, city, code, conference)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO NOTHING
        `, t.ID, t.Name, t.City, t.Code, t.Conference)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", t.ID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			teamsInserted++
		} else {
			skipped++
		}

		for _, p := range t.Players {
			cmdTag, err := pool.Exec(context.Background(), `
                INSERT INTO players (id, full_name, position, age, team_id,
                  overall, inside, outside, playmake, defense, rebound, stamina, potential,
                  contract_years, salary, created_at)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now())
                ON CONFLICT (id) DO NOTHING
            `, p.ID, p.FullName, p.Position, p.Age, t.ID,
				p.Overall, p.Inside, p.Outside, p.Playmake, p.Defense,
				p.Rebound, p.Stamina, p.Potential, p.ContractYears, p.Salary)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error inserting player %s: %v\n", p.ID, err)
				errs++
				continue
			}
			if cmdTag.RowsAffected() == 1 {
				playersInserted++
			} else {
				skipped++
			}
		}
	}

	// 4) Print summary
	fmt.Printf(
		"League seed complete: %d teams inserted, %d players inserted, %d skipped, %d errors\n",
		teamsInserted, playersInserted, skipped, errs,
	)
}
