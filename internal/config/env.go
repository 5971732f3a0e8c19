package config

import "github.com/joho/godotenv"

// LoadEnv loads variables from a .env file in the working directory.
// Variables already present in the environment win over the file.
func LoadEnv() error {
	return godotenv.Load()
}
