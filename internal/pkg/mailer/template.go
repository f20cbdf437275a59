package mailer

import "fmt"

// ResetPasswordHTML monta o corpo do e-mail de redefinição de senha com o
// link apontando para a SPA.
func ResetPasswordHTML(resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="UTF-8"><title>Redefinição de Senha</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9; border-radius: 8px;">
    <h2 style="color: #333; text-align: center;">Redefinição de Senha</h2>
    <p>Olá,</p>
    <p>Você solicitou a redefinição da sua senha. Clique no botão abaixo para continuar:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">Redefinir Senha</a>
    </div>
    <p style="color: #666; font-size: 14px;">Este link expira em <strong>30 minutos</strong>.</p>
    <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
    <p style="color: #999; font-size: 12px;">Se você não solicitou esta redefinição, ignore este e-mail.</p>
  </div>
</body>
</html>`, resetLink)
}
