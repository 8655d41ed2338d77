package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/karenhsieh75/med-it-easy/internal/analysis"
	"github.com/karenhsieh75/med-it-easy/internal/config"
	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/server"
	"github.com/karenhsieh75/med-it-easy/internal/store"
)

func main() {
	fmt.Println("Med It Easy - Skin Analysis Service")

	cfg := config.Load()

	// Load the rule table; a missing or malformed table is fatal.
	rulesPath := cfg.RulesPath
	if rulesPath == "" {
		rulesPath = findRulesPath()
	}
	if rulesPath == "" {
		log.Fatalf("Rule table doctor.json not found")
	}
	rules, err := analysis.LoadRuleTable(rulesPath)
	if err != nil {
		log.Fatalf("Failed to load rule table: %v", err)
	}
	fmt.Printf("Loaded %d diagnostic rules from %s\n", rules.Len(), rulesPath)

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dbDir := filepath.Join(homeDir, ".med-it-easy")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "med-it-easy.db")
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Try the FaceMesh subprocess first, fall back to the mock detector
	var det detector.Detector
	if fm, err := detector.NewFaceMeshDetector(detector.DefaultConfig()); err == nil {
		det = fm
		log.Println("Using MediaPipe FaceMesh landmark detection")
	} else {
		log.Printf("FaceMesh not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}
	defer det.Close()

	engine := analysis.NewEngine(det, rules, analysis.Config{DarkCircle: cfg.DarkCircle})

	// Configure and start server
	srv := server.New(server.Config{
		Store:  st,
		Engine: engine,
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findRulesPath searches for the doctor.json rule table in common
// locations. It checks: "assets", "../assets", "../../assets", and
// ~/.med-it-easy. Returns the first existing file or empty string.
func findRulesPath() string {
	relativePaths := []string{
		"assets/doctor.json",
		"../assets/doctor.json",
		"../../assets/doctor.json",
	}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeRules := filepath.Join(homeDir, ".med-it-easy", "doctor.json")
	if info, err := os.Stat(homeRules); err == nil && !info.IsDir() {
		return homeRules
	}

	return ""
}
