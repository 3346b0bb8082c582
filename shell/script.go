package shell

import (
	"encoding/json"
	"errors"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("spymaster_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command as a Lua function. The Lua arguments
// are quoted, appended to name and parsed like a typed line, so each one
// stays a single argument.
func luaCommand(name string, run func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		parts := []string{name}
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToString(i))
		}
		cmd, err := extractFields(shellquote.Join(parts...))
		if err != nil {
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := run(getShell(L), cmd)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
		} else {
			L.Push(lua.LString(r.message))
		}
		// number of results pushed
		return 1
	}
}

func State(L *lua.LState) int {
	sc := getShell(L)
	if sc.cur == nil {
		L.Push(lua.LString("ERROR: " + errNoGame.Error()))
		return 1
	}
	bts, err := json.Marshal(sc.cur.Snapshot())
	if err != nil {
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(string(bts)))
	return 1
}

var scriptFuncs = map[string]lua.LGFunction{
	"new":     luaCommand("new", (*ShellController).newGame),
	"load":    luaCommand("load", (*ShellController).load),
	"clue":    luaCommand("clue", (*ShellController).clue),
	"guess":   luaCommand("guess", (*ShellController).guess),
	"pass":    luaCommand("pass", (*ShellController).pass),
	"rate":    luaCommand("rate", (*ShellController).rate),
	"history": luaCommand("history", (*ShellController).history),
	"state":   State,
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("spymaster_shell", lsc)

	mod := L.NewTable()
	L.SetFuncs(mod, scriptFuncs)
	L.SetGlobal("spymaster", mod)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("script " + filepath + " done"), nil
}
