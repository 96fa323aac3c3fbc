// rollgen generates demo voter rosters for exercising the editor: a
// one-shot CSV, or a slow-growing file for --follow mode.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"rollgrid/internal/model"
)

var (
	firstNames = []string{
		"Anil", "Bina", "Chandan", "Deepa", "Elangbam", "Farida", "Gita", "Hemanta",
		"Ibomcha", "Jamuna", "Kiran", "Lata", "Mohan", "Nirmala", "Oinam", "Priya",
		"Rajen", "Sarita", "Tomba", "Usha",
	}
	lastNames = []string{
		"Singh", "Devi", "Sharma", "Das", "Meitei", "Begum", "Khan", "Roy",
		"Chanu", "Laishram",
	}
	categories = []string{"GENERAL", "ABSENT", "SHIFTED", "DEAD", "DUPLICATE"}
	genders    = []string{"M", "F"}
)

func main() {
	var (
		rows        int
		outPath     string
		toStdout    bool
		appendMode  bool
		intervalStr string
		seed        int64
	)
	flag.IntVar(&rows, "rows", 50, "Number of voter rows to generate")
	flag.StringVar(&outPath, "out", "roster.csv", "Output CSV path")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	flag.BoolVar(&appendMode, "append", false, "After writing, keep appending one row per interval until interrupted")
	flag.StringVar(&intervalStr, "interval", "2s", "Append interval (with --append)")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad interval:", err)
		os.Exit(1)
	}

	out := os.Stdout
	if !toStdout {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(model.DefaultHeader); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for i := 1; i <= rows; i++ {
		if err := w.Write(voterRow(rng, i)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !appendMode || toStdout {
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	serial := rows
	for {
		select {
		case <-sigCh:
			return
		case <-ticker.C:
			serial++
			if err := w.Write(voterRow(rng, serial)); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			w.Flush()
		}
	}
}

func voterRow(rng *rand.Rand, serial int) []string {
	name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
	relative := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
	age := 18 + rng.Intn(70)
	epic := fmt.Sprintf("%c%c%c%07d", 'A'+rng.Intn(26), 'A'+rng.Intn(26), 'A'+rng.Intn(26), rng.Intn(10000000))
	contact := fmt.Sprintf("9%09d", rng.Intn(1000000000))
	category := categories[rng.Intn(len(categories))]
	correction := "NO"
	if rng.Intn(10) == 0 {
		correction = "YES"
	}
	return []string{
		strconv.Itoa(serial),
		name,
		relative,
		strconv.Itoa(1 + rng.Intn(200)),
		strconv.Itoa(age),
		genders[rng.Intn(len(genders))],
		epic,
		contact,
		category,
		strconv.Itoa(1 + rng.Intn(60)),
		strconv.Itoa(1 + rng.Intn(40)),
		strconv.Itoa(serial),
		category,
		correction,
		"",
	}
}
