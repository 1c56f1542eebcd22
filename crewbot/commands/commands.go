package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	setup,
	operationStart,
	operationStop,
	shift,
	shiftManage,
	leaderboard,
	status,
	links,
	version,
}
