package types

type contextKey string

// AgentAppKey — ключ контекста, под которым root-команда кладет
// инициализированный *agent.App для подкоманд.
const AgentAppKey contextKey = "agentApp"
