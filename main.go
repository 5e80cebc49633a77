package main

import "github.com/Fortuz/rl-education/examples"

func main() {
	examples.Gridworld()
	examples.Bandit()
}
