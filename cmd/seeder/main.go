package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtflow/courtflow/internal/database"
	"github.com/courtflow/courtflow/internal/session"
	"github.com/courtflow/courtflow/internal/store"
	"github.com/joho/godotenv"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "courtflow.db"}
	if value, ok := os.LookupEnv("DB_NAME"); ok {
		config["DB_NAME"] = value
	}
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

var firstNames = []string{
	"Alva", "Bo", "Clara", "Dan", "Elin", "Frej", "Greta", "Hugo",
	"Ida", "Jon", "Klara", "Leo", "Maja", "Nils", "Olga", "Per",
	"Rut", "Sam", "Tove", "Ulf",
}

var lastNames = []string{
	"Berg", "Dahl", "Ek", "Falk", "Holm", "Lind", "Nord", "Strand",
}

var levels = []string{"beginner", "intermediate", "advanced"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	st := store.New(db)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	genders := []session.Gender{session.GenderMale, session.GenderFemale}

	const numPlayers = 20
	ids := make([]string, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		player, err := st.CreatePlayer(session.Player{
			FullName: firstNames[i%len(firstNames)] + " " + lastNames[rng.Intn(len(lastNames))],
			Gender:   genders[i%2],
			Level:    levels[rng.Intn(len(levels))],
		})
		if err != nil {
			log.Fatalf("Failed to insert player: %s", err)
		}
		ids = append(ids, player.ID)
	}
	log.Info("Seeded players", "count", numPlayers)

	sess, err := st.CreateSession("Demo club night", time.Now(), 15, 3)
	if err != nil {
		log.Fatalf("Failed to create session: %s", err)
	}

	// Check in a nice uneven roster: 14 of the 20 players.
	if _, err := st.SetAttendance(sess.ID, ids[:14]); err != nil {
		log.Fatalf("Failed to set attendance: %s", err)
	}

	log.Info("Seeded demo session", "sessionID", sess.ID, "courts", 3, "present", 14)
}
